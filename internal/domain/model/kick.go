package model

import "time"

// KickEvent is one immutable audit row. Reason is either a category label or
// the operator's free text, never the "Other" sentinel and never empty.
type KickEvent struct {
	Time            string
	ChatTitle       string
	TargetDisplay   string
	OperatorDisplay string
	Reason          string
}

// PendingKick binds a successful ban to the admin who issued it until a
// reason is recorded. Token is an opaque id carried in the reason buttons;
// a new /kick in the same chat rotates it, turning stale buttons into no-ops.
type PendingKick struct {
	Token         string
	OperatorID    int64
	TargetID      int64
	TargetDisplay string
	ChatTitle     string
	CreatedAt     time.Time
}

// PendingCustomReason is the per-operator "awaiting free text" marker created
// by an Other click. It carries everything the final audit row needs so the
// PendingKick itself can be consumed immediately.
type PendingCustomReason struct {
	ChatID          int64
	PromptMessageID int
	TargetDisplay   string
	ChatTitle       string
	OperatorDisplay string
}
