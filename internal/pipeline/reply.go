package pipeline

import (
	"errors"

	"github.com/fortuna/dugout/internal/fetch"
)

// GenericReply is sent for errors that carry no reply text of their own.
const GenericReply = "Sorry, something went wrong."

// Replier is implemented by errors that know their user-facing text.
type Replier interface {
	Reply() string
}

// Reply converts err to a single short line for the channel.
func Reply(err error) string {
	if err == nil {
		return ""
	}

	var fe *fetch.Error
	if errors.As(err, &fe) {
		return "Failed to open: " + fe.SafeURL()
	}

	var r Replier
	if errors.As(err, &r) {
		return r.Reply()
	}
	return GenericReply
}
