package notify

import (
	"fmt"
	"io"
	"sync"
)

// Sink surfaces toasts to the user. Notify must not block the caller for
// longer than it takes to hand the toast over and never reports errors.
type Sink interface {
	Notify(toast Toast)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Toast)

func (f SinkFunc) Notify(toast Toast) {
	if f != nil {
		f(toast)
	}
}

// Discard drops every toast.
var Discard Sink = SinkFunc(func(Toast) {})

// Collector buffers toasts so a request handler can render them into the
// response page or JSON body.
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(toast Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, toast)
}

// Toasts returns a copy of the collected toasts.
func (c *Collector) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

// Console writes toasts to a terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole writes to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(toast Toast) {
	if c == nil || c.out == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	marker := "✔"
	if toast.Variant == VariantDestructive {
		marker = "✖"
	}
	if toast.Description == "" {
		_, _ = fmt.Fprintf(c.out, "%s %s\n", marker, toast.Title)
		return
	}
	_, _ = fmt.Fprintf(c.out, "%s %s\n  %s\n", marker, toast.Title, toast.Description)
}

// Multi fans a toast out to every sink.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(toast Toast) {
		for _, sink := range sinks {
			if sink != nil {
				sink.Notify(toast)
			}
		}
	})
}
