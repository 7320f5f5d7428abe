package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"datacat/internal/catalog"
)

// Controller runs the live UI and implements catalog.CheckObserver.
type Controller struct {
	catalog string
	events  chan Event
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

var _ catalog.CheckObserver = (*Controller)(nil)

// Start launches a live UI controller that writes to stdout. The name labels
// the header, typically the catalog path.
func Start(stdout io.Writer, name string, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithInput(nil), tea.WithAltScreen())
	controller := &Controller{
		catalog: name,
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnCheckStart forwards the dataset list to the UI.
func (c *Controller) OnCheckStart(datasets []string) {
	if c == nil {
		return
	}
	c.send(Event{Kind: EventCheckStart, Catalog: c.catalog, Datasets: datasets}, true)
}

// OnDatasetEvent forwards dataset status updates to the UI.
func (c *Controller) OnDatasetEvent(event catalog.DatasetEvent) {
	c.send(Event{Kind: EventDataset, Dataset: event}, event.Status.Terminal())
}

// OnCheckEnd forwards completion to the UI and closes it.
func (c *Controller) OnCheckEnd(report catalog.CheckReport) {
	c.send(Event{Kind: EventCheckEnd, Failed: report.Failed()}, true)
	c.Close()
}

// send enqueues an event. Progress updates are dropped when the buffer is
// full; lifecycle and terminal events wait for room unless the UI has exited.
// Events sent after Close are ignored.
func (c *Controller) send(event Event, wait bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !wait {
		select {
		case c.events <- event:
		default:
		}
		return
	}
	select {
	case c.events <- event:
	case <-c.done:
	}
}
