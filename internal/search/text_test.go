package search

import (
	"strings"
	"testing"
)

func TestExtractText_SkipInvisibleElements(t *testing.T) {
	htmlContent := `<html><head><style>body { color: red; }</style></head><body>
<nav>Home | About</nav>
<p>Visible   paragraph
text.</p>
<script>alert("hidden")</script>
<noscript>Enable JS</noscript>
<footer>Copyright</footer>
</body></html>`

	text, err := ExtractText(htmlContent)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	if text != "Visible paragraph text." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExcerpt_KeepsWholeSentences(t *testing.T) {
	text := "The first sentence is long enough to count. The second sentence is also long enough. The third one will not fit at all."

	got := Excerpt(text, 90)
	want := "The first sentence is long enough to count. The second sentence is also long enough."
	if got != want {
		t.Errorf("Excerpt() = %q, want %q", got, want)
	}
}

func TestExcerpt_ShortTextUnchanged(t *testing.T) {
	if got := Excerpt("short", 100); got != "short" {
		t.Errorf("Excerpt() = %q", got)
	}
	if got := Excerpt("no limit applies here", 0); got != "no limit applies here" {
		t.Errorf("Excerpt() = %q", got)
	}
}

func TestExcerpt_NoSentencesCuts(t *testing.T) {
	text := strings.Repeat("x", 50)
	if got := Excerpt(text, 10); got != strings.Repeat("x", 10) {
		t.Errorf("Excerpt() = %q", got)
	}
}

func TestSplitSentences_MinMaxLength(t *testing.T) {
	text := "Too short. " + "This sentence is comfortably longer than thirty characters. " + strings.Repeat("a", 600) + "."

	sentences := splitSentences(text)
	if len(sentences) != 1 {
		t.Fatalf("Expected 1 sentence, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "This sentence is comfortably longer than thirty characters." {
		t.Errorf("Unexpected sentence: %q", sentences[0])
	}
}
