package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tokenbench/internal/runner"
)

// Controller runs the live UI and implements runner.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_ = program.Start()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnBenchStart forwards benchmark start events to the UI.
func (c *Controller) OnBenchStart(runID string, totalRuns int) {
	c.send(Event{Kind: EventBenchStart, RunID: runID, TotalRuns: totalRuns})
}

// OnRunEvent forwards run status updates to the UI.
func (c *Controller) OnRunEvent(event runner.RunEvent) {
	c.send(Event{Kind: EventRun, Run: event})
}

// OnBenchEnd forwards benchmark completion to the UI and closes it.
func (c *Controller) OnBenchEnd(outputPath string) {
	c.send(Event{Kind: EventBenchEnd, OutputPath: outputPath})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
