// Package runview renders a live view of one analysis run: a status line per
// analyst that advances as run events arrive, then the synthesized result
// rendered as markdown once the run completes.
package runview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorumlabs/council/internal/workflow"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#54A0FF"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

type workerStatus int

const (
	statusPending workerStatus = iota
	statusRunning
	statusDone
	statusFailed
)

// eventMsg wraps one run event for the update loop.
type eventMsg workflow.Event

// streamClosedMsg signals the event stream ended.
type streamClosedMsg struct{}

// listenCmd waits for the next event on the run's stream.
func listenCmd(events <-chan workflow.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

type workerRow struct {
	spec   workflow.WorkerSpec
	status workerStatus
	err    error
}

// Model is the bubbletea model for a single run.
type Model struct {
	query   string
	events  <-chan workflow.Event
	cancel  context.CancelFunc
	rows    []workerRow
	byID    map[string]int
	result  string
	runErr  error
	done    bool
	waiting bool
}

// New creates a run view over the given event stream. cancel is invoked when
// the user quits mid-run so the workflow shuts down instead of leaking.
func New(query string, workers []workflow.WorkerSpec, events <-chan workflow.Event, cancel context.CancelFunc) Model {
	rows := make([]workerRow, len(workers))
	byID := make(map[string]int, len(workers))
	for i, w := range workers {
		rows[i] = workerRow{spec: w, status: statusPending}
		byID[w.ID] = i
	}
	return Model{
		query:  query,
		events: events,
		cancel: cancel,
		rows:   rows,
		byID:   byID,
	}
}

// Init starts listening on the event stream.
func (m Model) Init() tea.Cmd {
	return listenCmd(m.events)
}

// Update handles run events and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.done {
				return m, tea.Quit
			}
			// Cancel the run but keep draining; the terminal event ends
			// the stream and the program.
			m.cancel()
			m.waiting = true
			return m, nil
		}
		return m, nil

	case eventMsg:
		m.apply(workflow.Event(msg))
		if m.done {
			return m, tea.Quit
		}
		return m, listenCmd(m.events)

	case streamClosedMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(e workflow.Event) {
	switch e.Kind {
	case workflow.EventWorkerStarted:
		if i, ok := m.byID[e.WorkerID]; ok {
			m.rows[i].status = statusRunning
		}
	case workflow.EventWorkerCompleted:
		if i, ok := m.byID[e.WorkerID]; ok {
			m.rows[i].status = statusDone
		}
	case workflow.EventWorkerFailed:
		if i, ok := m.byID[e.WorkerID]; ok {
			m.rows[i].status = statusFailed
			m.rows[i].err = e.Err
		}
	case workflow.EventAggregated:
		m.result = e.Text
		m.done = true
	case workflow.EventCancelled:
		m.runErr = fmt.Errorf("run cancelled")
		m.done = true
	case workflow.EventFailed:
		m.runErr = e.Err
		m.done = true
	}
}

// View renders the worker board and, when finished, the synthesized result.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("council") + " " + m.query + "\n\n")

	for _, row := range m.rows {
		var line string
		switch row.status {
		case statusPending:
			line = pendingStyle.Render("  ○ " + row.spec.Name + " (queued)")
		case statusRunning:
			line = runningStyle.Render("  ◐ " + row.spec.Name + " (analyzing)")
		case statusDone:
			line = doneStyle.Render("  ● " + row.spec.Name + " (done)")
		case statusFailed:
			line = failedStyle.Render(fmt.Sprintf("  ✗ %s (%v)", row.spec.Name, row.err))
		}
		sb.WriteString(line + "\n")
	}

	switch {
	case m.runErr != nil:
		sb.WriteString("\n" + failedStyle.Render(fmt.Sprintf("run failed: %v", m.runErr)) + "\n")
	case m.result != "":
		sb.WriteString("\n" + renderMarkdown(m.result))
	case m.waiting:
		sb.WriteString("\n" + helpStyle.Render("cancelling...") + "\n")
	default:
		sb.WriteString("\n" + helpStyle.Render("q to cancel") + "\n")
	}

	return sb.String()
}

// Result returns the synthesized text, empty until the run aggregates.
func (m Model) Result() string { return m.result }

// Err returns the terminal error, nil for a successful run.
func (m Model) Err() error { return m.runErr }

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
