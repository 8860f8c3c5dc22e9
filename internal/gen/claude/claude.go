// Package claude provides a gen.Generator backed by a headless Claude Code
// CLI invocation. Each Generate call runs `claude -p` once with the role's
// instructions appended to the system prompt; authentication is whatever the
// installed CLI is already configured with.
package claude

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/quorumlabs/council/internal/gen"
	"github.com/quorumlabs/council/internal/log"
)

// DefaultModel is the model requested when none is configured.
const DefaultModel = "sonnet"

// DefaultExecPath is the Claude CLI executable looked up on PATH.
const DefaultExecPath = "claude"

// Client spawns one headless Claude process per generation call.
type Client struct {
	execPath string
	model    string
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model passed to the CLI (sonnet, opus, haiku).
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithExecPath overrides the CLI executable path.
func WithExecPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.execPath = path
		}
	}
}

// New creates a Claude CLI client.
func New(opts ...Option) *Client {
	c := &Client{
		execPath: DefaultExecPath,
		model:    DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider type identifier.
func (c *Client) Provider() gen.ProviderType { return gen.ProviderClaude }

// Generate runs one headless CLI invocation. The context governs the process
// lifetime: cancellation or deadline expiry kills the process and returns
// ctx's error so workers can classify timeouts.
func (c *Client) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	args := []string{
		"-p", prompt,
		"--append-system-prompt", instructions,
		"--model", c.model,
		"--output-format", "text",
	}

	cmd := exec.CommandContext(ctx, c.execPath, args...) // #nosec G204 -- execPath comes from trusted config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	log.Debug(log.CatGen, "Spawning claude process", "model", c.model)

	err := cmd.Run()
	elapsed := time.Since(start)

	// Prefer the context error: a killed process reports a generic exit
	// failure, but the caller needs to see cancellation or deadline expiry.
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn(log.CatGen, "Claude process aborted", "after", elapsed, "reason", ctxErr)
		return "", ctxErr
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		log.ErrorErr(log.CatGen, "Claude process failed", err, "stderr", msg)
		return "", fmt.Errorf("claude: %s", msg)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", fmt.Errorf("claude: empty response")
	}

	log.Debug(log.CatGen, "Claude process completed", "elapsed", elapsed, "bytes", len(text))
	return text, nil
}

// init registers the claude provider with the generator registry.
func init() {
	gen.Register(gen.ProviderClaude, func() gen.Generator {
		return New()
	})
}
