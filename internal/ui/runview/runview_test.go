package runview

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/quorumlabs/council/internal/workflow"
)

func testWorkers() []workflow.WorkerSpec {
	return []workflow.WorkerSpec{
		{ID: "market", Name: "Market Analyst", Position: 1},
		{ID: "news", Name: "News Analyst", Position: 2},
	}
}

func event(kind workflow.EventKind, workerID string) workflow.Event {
	return workflow.Event{Kind: kind, RunID: "run", WorkerID: workerID, Time: time.Now()}
}

func TestModel_TracksWorkerProgress(t *testing.T) {
	m := New("AAPL", testWorkers(), nil, func() {})

	view := m.View()
	require.Contains(t, view, "Market Analyst (queued)")
	require.Contains(t, view, "News Analyst (queued)")

	next, _ := m.Update(eventMsg(event(workflow.EventWorkerStarted, "market")))
	m = next.(Model)
	require.Contains(t, m.View(), "Market Analyst (analyzing)")

	next, _ = m.Update(eventMsg(event(workflow.EventWorkerCompleted, "market")))
	m = next.(Model)
	require.Contains(t, m.View(), "Market Analyst (done)")
}

func TestModel_WorkerFailureShowsError(t *testing.T) {
	m := New("AAPL", testWorkers(), nil, func() {})

	e := event(workflow.EventWorkerFailed, "news")
	e.Err = fmt.Errorf("feed down")
	next, _ := m.Update(eventMsg(e))
	m = next.(Model)

	require.Contains(t, m.View(), "News Analyst")
	require.Contains(t, m.View(), "feed down")
}

func TestModel_AggregatedEventQuitsWithResult(t *testing.T) {
	m := New("AAPL", testWorkers(), nil, func() {})

	e := event(workflow.EventAggregated, "")
	e.Text = "# Recommendation\nBUY"
	next, cmd := m.Update(eventMsg(e))
	m = next.(Model)

	require.NotNil(t, cmd, "terminal event must quit the program")
	require.Equal(t, "# Recommendation\nBUY", m.Result())
	require.NoError(t, m.Err())
}

func TestModel_CancelledRunReportsError(t *testing.T) {
	m := New("AAPL", testWorkers(), nil, func() {})

	next, _ := m.Update(eventMsg(event(workflow.EventCancelled, "")))
	m = next.(Model)

	require.Error(t, m.Err())
	require.Contains(t, m.View(), "run failed")
}

func TestModel_QuitKeyCancelsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New("AAPL", testWorkers(), nil, cancel)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)

	require.Nil(t, cmd, "must keep draining until the terminal event")
	require.Error(t, ctx.Err(), "cancel func must have been invoked")
	require.Contains(t, m.View(), "cancelling")
}

func TestListenCmd_ClosedStreamSignalsDone(t *testing.T) {
	ch := make(chan workflow.Event)
	close(ch)

	msg := listenCmd(ch)()
	require.IsType(t, streamClosedMsg{}, msg)
}
