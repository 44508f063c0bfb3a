package commands

import (
	"context"
	"time"
)

type sourceKey struct{}

// WithSource tags ctx with where a command came from, e.g. "rest".
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return "direct"
}

// Event is published after every dispatch.
type Event struct {
	Command    string    `json:"command"`
	Args       string    `json:"args"`
	Lines      []string  `json:"lines"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	Source     string    `json:"source"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Observer is notified of every dispatched command. Implementations must not
// block for long; they run on the dispatching goroutine.
type Observer interface {
	OnCommand(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) OnCommand(ctx context.Context, ev Event) { f(ctx, ev) }

func (d *Dispatcher) notify(ctx context.Context, res Result) {
	d.mu.RLock()
	observers := d.observers
	d.mu.RUnlock()
	if len(observers) == 0 {
		return
	}

	ev := Event{
		Command:    res.Command,
		Args:       res.Args,
		Lines:      res.Plain(),
		OK:         res.Err == nil,
		Source:     sourceFrom(ctx),
		DurationMS: res.Duration.Milliseconds(),
		At:         d.now().UTC(),
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	for _, o := range observers {
		o.OnCommand(ctx, ev)
	}
}
