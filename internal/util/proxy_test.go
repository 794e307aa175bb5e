package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://plain:8080", "http://secure:8443", "localhost, .internal.example")

	cases := []struct {
		url  string
		want string
	}{
		{"http://example.com/a", "http://plain:8080"},
		{"https://example.com/a", "http://secure:8443"},
		{"https://localhost/a", ""},
		{"https://api.internal.example/a", ""},
		{"https://internal.example/a", ""},
	}

	for _, tc := range cases {
		req, err := http.NewRequest(http.MethodGet, tc.url, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.url, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tc.want {
			t.Errorf("%s: expected proxy %q, got %q", tc.url, tc.want, gotStr)
		}
	}
}
