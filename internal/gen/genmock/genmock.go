// Package genmock provides a mock gen.Generator. Tests configure it via
// function fields, following the state-based mock pattern used across the
// codebase: set GenerateFunc to script outcomes per role and inspect call
// counts afterwards. The CLI also ships it as the "mock" provider so runs
// can be exercised without external calls.
package genmock

import (
	"context"
	"fmt"
	"sync"

	"github.com/quorumlabs/council/internal/gen"
)

// Generator is a mock implementation of gen.Generator.
type Generator struct {
	// GenerateFunc is called when Generate is invoked. If nil, a canned
	// non-empty response echoing the prompt is returned.
	GenerateFunc func(ctx context.Context, instructions, prompt string) (string, error)

	mu    sync.Mutex
	calls int
}

// New creates a new mock generator with default behavior.
func New() *Generator {
	return &Generator{}
}

// Provider returns the provider type identifier.
func (g *Generator) Provider() gen.ProviderType { return gen.ProviderMock }

// Generate delegates to GenerateFunc when set, counting every call.
func (g *Generator) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.GenerateFunc != nil {
		return g.GenerateFunc(ctx, instructions, prompt)
	}
	return fmt.Sprintf("mock analysis for: %s", prompt), nil
}

// Calls returns how many times Generate was invoked.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Reset clears the call counter.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = 0
}

// init registers the mock provider with the generator registry.
func init() {
	gen.Register(gen.ProviderMock, func() gen.Generator {
		return New()
	})
}
