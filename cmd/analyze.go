package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quorumlabs/council/internal/config"
	"github.com/quorumlabs/council/internal/gen"
	"github.com/quorumlabs/council/internal/gen/claude"
	"github.com/quorumlabs/council/internal/log"

	// Register the mock provider so --provider mock runs without external calls.
	_ "github.com/quorumlabs/council/internal/gen/genmock"
	"github.com/quorumlabs/council/internal/roles"
	"github.com/quorumlabs/council/internal/tracing"
	"github.com/quorumlabs/council/internal/ui/runview"
	"github.com/quorumlabs/council/internal/workflow"
)

var (
	analyzeProvider string
	analyzeModel    string
	analyzeTimeout  time.Duration
	analyzeNoCache  bool
	analyzeWatch    bool

	startedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#54A0FF"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <query>",
	Short: "Run the full analyst council against a query",
	Long: `Dispatch a query to every analyst role concurrently, wait for all
analyses to complete, and print the lead analyst's synthesized
recommendation as rendered markdown.

Examples:
  # Analyze a stock with the built-in roles
  council analyze AAPL

  # Watch progress in a live terminal view
  council analyze --watch "TSLA earnings outlook"

  # Use the mock provider (no external calls)
  council analyze --provider mock AAPL`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "generation provider: claude or mock")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "model passed to the provider")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "per-analyst timeout (e.g. 2m)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "skip the generation cache")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "show a live progress view")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if analyzeProvider != "" {
		cfg.Provider = analyzeProvider
	}
	if analyzeModel != "" {
		cfg.Model = analyzeModel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.WorkerTimeout = analyzeTimeout
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc := cfg.Tracing
	tc.FilePath = config.ExpandHome(tc.FilePath)
	if tc.Enabled && tc.Exporter == "file" && tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	tp, err := tracing.NewProvider(tc)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	generator, err := buildGenerator()
	if err != nil {
		return err
	}

	analysts, lead, err := loadRegistry()
	if err != nil {
		return err
	}

	specs := make([]workflow.WorkerSpec, 0, len(analysts))
	for _, r := range analysts {
		specs = append(specs, r.Spec())
	}

	coordinator, err := workflow.New(workflow.Config{
		Workers:         specs,
		Aggregator:      lead.Spec(),
		Generator:       generator,
		WorkerTimeout:   cfg.WorkerTimeout,
		StreamBuffer:    cfg.StreamBuffer,
		Tracer:          tp.Tracer(),
		WorkerPrompt:    roles.AnalysisPrompt,
		AggregatePrompt: roles.SynthesisPrompt,
	})
	if err != nil {
		return fmt.Errorf("building coordinator: %w", err)
	}

	if debug && !analyzeWatch {
		mirrorDebugLog(ctx)
	}

	if analyzeWatch {
		return runWatch(ctx, coordinator, query)
	}
	return runPlain(ctx, coordinator, query)
}

// runPlain streams progress lines to stderr and prints the synthesized
// recommendation to stdout, so the result stays pipeable.
func runPlain(ctx context.Context, coordinator *workflow.Coordinator, query string) error {
	names := workerNames(coordinator.Workers())

	for e := range coordinator.Run(ctx, query) {
		switch e.Kind {
		case workflow.EventWorkerStarted:
			fmt.Fprintln(os.Stderr, startedStyle.Render(fmt.Sprintf("▸ %s analyzing...", names[e.WorkerID])))
		case workflow.EventWorkerCompleted:
			fmt.Fprintln(os.Stderr, completedStyle.Render(fmt.Sprintf("✓ %s done", names[e.WorkerID])))
		case workflow.EventWorkerFailed:
			fmt.Fprintln(os.Stderr, failedStyle.Render(fmt.Sprintf("✗ %s failed: %v", names[e.WorkerID], e.Err)))
		case workflow.EventAggregated:
			fmt.Fprintln(os.Stderr, completedStyle.Render("✓ synthesis complete"))
			fmt.Print(renderMarkdown(e.Text))
		case workflow.EventCancelled:
			return fmt.Errorf("run cancelled")
		case workflow.EventFailed:
			return fmt.Errorf("run failed: %w", e.Err)
		}
	}
	return nil
}

// runWatch shows the live bubbletea view, then re-prints the result after the
// alt screen is torn down.
func runWatch(ctx context.Context, coordinator *workflow.Coordinator, query string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := coordinator.Run(runCtx, query)
	model := runview.New(query, coordinator.Workers(), events, cancel)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	m, ok := final.(runview.Model)
	if !ok {
		return nil
	}
	if m.Err() != nil {
		return m.Err()
	}
	if m.Result() != "" {
		fmt.Print(renderMarkdown(m.Result()))
	}
	return nil
}

// buildGenerator constructs the configured provider, wrapped in the
// memoizing cache unless --no-cache is set.
func buildGenerator() (gen.Generator, error) {
	provider := gen.ProviderType(cfg.Provider)

	var g gen.Generator
	var err error
	if provider == gen.ProviderClaude {
		g = claude.New(claude.WithModel(cfg.Model))
	} else {
		g, err = gen.New(provider)
		if err != nil {
			return nil, fmt.Errorf("creating generator: %w", err)
		}
	}

	if analyzeNoCache {
		return g, nil
	}
	return gen.NewCached(g, cfg.CacheTTL), nil
}

// loadRegistry merges built-in and user role templates and splits the result
// into the analyst registry and the lead.
func loadRegistry() ([]roles.Role, roles.Role, error) {
	builtin, err := roles.LoadBuiltin()
	if err != nil {
		return nil, roles.Role{}, fmt.Errorf("loading built-in roles: %w", err)
	}

	userDir := config.ExpandHome(cfg.RolesDir)
	if userDir == "" {
		userDir = roles.UserRoleDir()
	}
	user, err := roles.LoadUserDir(userDir)
	if err != nil {
		return nil, roles.Role{}, fmt.Errorf("loading user roles from %s: %w", userDir, err)
	}

	analysts, lead, err := roles.Split(roles.Merge(builtin, user))
	if err != nil {
		return nil, roles.Role{}, fmt.Errorf("invalid role registry: %w", err)
	}
	return analysts, lead, nil
}

// mirrorDebugLog tails the debug log to stderr for the life of the run.
func mirrorDebugLog(ctx context.Context) {
	entries := log.Subscribe(ctx)
	if entries == nil {
		return
	}
	go func() {
		for e := range entries {
			fmt.Fprint(os.Stderr, e.Payload)
		}
	}()
}

func workerNames(specs []workflow.WorkerSpec) map[string]string {
	names := make(map[string]string, len(specs))
	for _, s := range specs {
		names[s.ID] = s.Name
	}
	return names
}

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}
