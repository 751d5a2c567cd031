package studio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

// fakeGenerator records calls; when gate is set each call blocks until a value arrives on it.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   []string
	configs []models.GenerationConfig
	ref     string
	err     error
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, cfg models.GenerationConfig) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.configs = append(f.configs, cfg)
	n := len(f.calls)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return "", f.err
	}
	if f.ref != "" {
		return f.ref, nil
	}
	return fmt.Sprintf("data:image/png;base64,ref%d", n), nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestController(gen *fakeGenerator, opts ...Option) *Controller {
	counter := 0
	base := []Option{
		WithThumbnailer(nil),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("id%d", counter)
		}),
		WithClock(func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }),
		WithLocation(time.UTC),
	}
	return New(gen, append(base, opts...)...)
}
