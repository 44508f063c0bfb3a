package commands

import (
	"fmt"
	"strings"
)

// UsageError means the arguments did not fit the command.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: bad arguments", e.Command)
}

func (e *UsageError) Reply() string {
	if e.Reason != "" {
		return e.Reason
	}
	return strings.TrimSpace("Usage: " + e.Command + " " + e.Usage)
}

type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

func (e *UnknownCommandError) Reply() string {
	return fmt.Sprintf("Unknown command: %s. Try help.", e.Name)
}
