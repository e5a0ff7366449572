// Package delivery implements the per-message delivery state machine:
// sent -> delivered -> read, strictly forward, with role-gated
// transitions. The rules are pure functions so both the store layer and
// the live hub apply identical checks.
package delivery

import (
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Status is a message delivery state. Values are ordered: a transition
// is legal only when the target is strictly greater.
type Status int8

const (
	StatusSent      Status = 0 // set by the sender at creation
	StatusDelivered Status = 1 // set when visible to the receiver's session
	StatusRead      Status = 2 // set when rendered in the open conversation
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusDelivered:
		return "delivered"
	case StatusRead:
		return "read"
	}
	return "unknown"
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, bool) {
	switch name {
	case "sent":
		return StatusSent, true
	case "delivered":
		return StatusDelivered, true
	case "read":
		return StatusRead, true
	}
	return 0, false
}

// Valid reports whether s is a known state.
func (s Status) Valid() bool {
	return s >= StatusSent && s <= StatusRead
}

// Unread reports whether a message in this state counts toward the
// receiver's unread total.
func (s Status) Unread() bool {
	return s == StatusSent || s == StatusDelivered
}

// CanAdvance reports whether moving from current to target is a
// forward transition. Equal or earlier targets are not an error for
// callers that retry: re-issuing a transition whose target state
// already holds is a no-op.
func CanAdvance(current, target Status) bool {
	return target.Valid() && target > current
}

// CheckAdvance validates a status advancement requested by actor on a
// message sent by senderID to receiverID. Only the receiver may advance
// delivery status. A target at or below current yields ErrNoop so the
// caller can treat retries as success.
func CheckAdvance(senderID, receiverID, actor string, current, target Status) error {
	if !target.Valid() || target == StatusSent {
		return errorx.Newf(errorx.CodeInvalidParam, "invalid target status %d", target)
	}
	if actor != receiverID {
		return errorx.Wrapf(errorx.ErrForbidden, errorx.CodeForbidden,
			"only the receiver may mark a message %s", target)
	}
	_ = senderID
	if target <= current {
		return ErrNoop
	}
	return nil
}

// CheckDelete validates a soft delete requested by actor. Only the
// original sender may delete, regardless of current delivery status.
func CheckDelete(senderID, actor string) error {
	if actor != senderID {
		return errorx.Wrap(errorx.ErrForbidden, errorx.CodeForbidden,
			"only the sender may delete a message")
	}
	return nil
}

// ErrNoop marks a transition whose target state already holds. Safe to
// swallow: status mutations are absolute, so retries are idempotent.
var ErrNoop = errorx.New(errorx.CodeSuccess, "status already at or past target")
