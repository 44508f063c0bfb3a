// Package commands implements the baseball chat commands on top of the
// resolution pipeline. A host hands Dispatch a command name and its raw
// argument string and gets back the reply lines; errors never escape.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fortuna/dugout/internal/fetch"
	"github.com/fortuna/dugout/internal/ircfmt"
	"github.com/fortuna/dugout/internal/pipeline"
	"github.com/fortuna/dugout/internal/scrape"
)

// Invocation is one parsed call of a command.
type Invocation struct {
	Args  []string
	Flags map[string]bool
}

// Flag reports whether --name was given.
func (inv *Invocation) Flag(name string) bool {
	return inv.Flags[name]
}

// Rest joins the positional arguments with single spaces.
func (inv *Invocation) Rest() string {
	return strings.Join(inv.Args, " ")
}

type HandlerFunc func(ctx context.Context, inv *Invocation) ([]string, error)

// Command describes one chat command.
type Command struct {
	Name    string
	Usage   string
	Help    string
	Flags   []string
	MinArgs int
	MaxArgs int // -1 for unbounded
	Run     HandlerFunc
}

// Result is what a host sends back to the channel.
type Result struct {
	Command  string        `json:"command"`
	Args     string        `json:"args"`
	Lines    []string      `json:"lines"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Plain returns the reply lines without IRC formatting codes.
func (r Result) Plain() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = ircfmt.Strip(l)
	}
	return out
}

// Dispatcher routes command names to handlers. Safe for concurrent use once
// constructed; handlers share only read-only state.
type Dispatcher struct {
	pipeline  *pipeline.Pipeline
	endpoints Endpoints
	now       func() time.Time
	logger    *slog.Logger
	commands  map[string]*Command

	mu        sync.RWMutex
	observers []Observer
}

type Option func(*Dispatcher)

func WithEndpoints(e Endpoints) Option {
	return func(d *Dispatcher) { d.endpoints = e }
}

// WithClock replaces time.Now, for schedules and season years.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// NewDispatcher registers every built-in command.
func NewDispatcher(p *pipeline.Pipeline, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pipeline:  p,
		endpoints: DefaultEndpoints(),
		now:       time.Now,
		logger:    slog.Default(),
		commands:  make(map[string]*Command),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "commands")

	for _, c := range d.builtins() {
		d.Register(c)
	}
	return d
}

// Register adds or replaces a command.
func (d *Dispatcher) Register(c *Command) {
	d.commands[strings.ToLower(c.Name)] = c
}

// AddObserver subscribes o to every dispatched command.
func (d *Dispatcher) AddObserver(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Commands lists registered commands by name.
func (d *Dispatcher) Commands() []*Command {
	out := make([]*Command, 0, len(d.commands))
	for _, c := range d.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a command by name, case-insensitively.
func (d *Dispatcher) Lookup(name string) (*Command, bool) {
	c, ok := d.commands[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Dispatch runs a command and always returns at least one reply line.
func (d *Dispatcher) Dispatch(ctx context.Context, name, rawArgs string) Result {
	start := d.now()
	res := Result{Command: strings.ToLower(strings.TrimSpace(name)), Args: rawArgs}

	cmd, ok := d.Lookup(name)
	if !ok {
		res.Err = &UnknownCommandError{Name: name}
	} else {
		res.Lines, res.Err = d.run(ctx, cmd, rawArgs)
	}

	if res.Err != nil {
		res.Lines = []string{pipeline.Reply(res.Err)}
		d.logFailure(res.Command, res.Err)
	} else if len(res.Lines) == 0 {
		res.Lines = []string{"No results."}
	}
	res.Duration = d.now().Sub(start)

	d.notify(ctx, res)
	return res
}

func (d *Dispatcher) run(ctx context.Context, cmd *Command, rawArgs string) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "command", cmd.Name, "panic", r, "stack", string(debug.Stack()))
			lines, err = nil, fmt.Errorf("command %s panicked: %v", cmd.Name, r)
		}
	}()

	inv, err := parseArgs(cmd, rawArgs)
	if err != nil {
		return nil, err
	}
	return cmd.Run(ctx, inv)
}

func parseArgs(cmd *Command, raw string) (*Invocation, error) {
	inv := &Invocation{Flags: make(map[string]bool)}
	for _, tok := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(tok, "--"); ok && name != "" {
			if !slices.Contains(cmd.Flags, name) {
				return nil, &UsageError{Command: cmd.Name, Usage: cmd.Usage}
			}
			inv.Flags[name] = true
			continue
		}
		inv.Args = append(inv.Args, tok)
	}
	if len(inv.Args) < cmd.MinArgs || (cmd.MaxArgs >= 0 && len(inv.Args) > cmd.MaxArgs) {
		return nil, &UsageError{Command: cmd.Name, Usage: cmd.Usage}
	}
	return inv, nil
}

func (d *Dispatcher) logFailure(command string, err error) {
	var (
		fe *fetch.Error
		ee *scrape.ExtractionError
	)
	switch {
	case errors.As(err, &fe), errors.As(err, &ee):
		d.logger.Warn("command failed", "command", command, "error", err)
	default:
		d.logger.Debug("command rejected", "command", command, "error", err)
	}
}
