// Package gen defines the generation collaborator used by workflow workers.
// A Generator turns a role's instructions plus a prompt into text; the
// coordination core treats the call as opaque and never retries it. Concrete
// providers (the Claude CLI, the test mock) register themselves with the
// provider registry in their init functions.
package gen

import (
	"context"
	"fmt"
)

// ProviderType identifies a generation provider.
type ProviderType string

const (
	// ProviderClaude is the headless Claude Code CLI provider.
	ProviderClaude ProviderType = "claude"
	// ProviderMock is the in-process mock provider for testing.
	ProviderMock ProviderType = "mock"
)

// Generator produces text from role instructions and a prompt. Generate must
// honor ctx: cancellation or deadline expiry aborts the external call and
// returns ctx's error. Implementations are safe for concurrent use; every
// workflow worker shares one Generator.
type Generator interface {
	// Provider returns the provider type identifier.
	Provider() ProviderType

	// Generate performs one external generation call. An empty response is
	// the provider's problem to report as an error, not to return as text.
	Generate(ctx context.Context, instructions, prompt string) (string, error)
}

// ErrUnknownProvider is returned when an unregistered provider is requested.
var ErrUnknownProvider = fmt.Errorf("unknown generation provider")

var registry = make(map[ProviderType]func() Generator)

// Register adds a provider factory for the given type. Call from provider
// package init functions.
func Register(t ProviderType, factory func() Generator) {
	registry[t] = factory
}

// New creates a Generator for the given provider type. Returns
// ErrUnknownProvider if the type is not registered.
func New(t ProviderType) (Generator, error) {
	factory, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, t)
	}
	return factory(), nil
}

// Registered returns all registered provider types.
func Registered() []ProviderType {
	types := make([]ProviderType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}

// IsRegistered returns true if the given provider type has been registered.
func IsRegistered(t ProviderType) bool {
	_, ok := registry[t]
	return ok
}
