package mocks

import (
	"context"
	"parking/infras/otel"
	"sync"
)

// Recorder is an otel.Otel that keeps span names and traced errors in memory.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors []error
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans = append(r.spans, spanName)

	return ctx, &scopeImpl{recorder: r}
}

func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

func (r *Recorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, err)
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewOtel returns a recorder for tests that do not inspect spans.
func NewOtel() otel.Otel {
	return NewRecorder()
}
