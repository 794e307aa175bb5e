package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/groundcheck/internal/model"
)

// Runner runs the full pipeline for one topic
type Runner interface {
	Run(ctx context.Context, topic string) (*model.RunResult, error)
}

// TopicResult is the outcome of one topic in a batch
type TopicResult struct {
	Topic  string
	Result *model.RunResult
	Error  error
}

// BatchProcessor runs topics one after another
type BatchProcessor struct {
	runner   Runner
	onResult func(*TopicResult)
}

// NewBatchProcessor creates a new batch processor. onResult, if set, is
// called after each topic finishes.
func NewBatchProcessor(runner Runner, onResult func(*TopicResult)) *BatchProcessor {
	return &BatchProcessor{
		runner:   runner,
		onResult: onResult,
	}
}

// ProcessTopics runs every topic in order. A failing topic does not stop the
// batch; a cancelled context marks the remaining topics as failed.
func (b *BatchProcessor) ProcessTopics(ctx context.Context, topics []string) []*TopicResult {
	results := make([]*TopicResult, 0, len(topics))

	for _, topic := range topics {
		res := &TopicResult{Topic: topic}
		if err := ctx.Err(); err != nil {
			res.Error = err
		} else {
			res.Result, res.Error = b.runner.Run(ctx, topic)
		}

		results = append(results, res)
		if b.onResult != nil {
			b.onResult(res)
		}
	}

	return results
}

// ProcessFile reads topics from a file and processes them in order
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TopicResult, error) {
	topics, err := ReadTopicsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}

	return b.ProcessTopics(ctx, topics), nil
}

// ReadTopicsFromFile reads topics from a file (one per line)
func ReadTopicsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			topics = append(topics, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return topics, nil
}
