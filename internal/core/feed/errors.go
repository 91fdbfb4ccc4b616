package feed

import "errors"

// Sentinel errors for feed operations.
var (
	// ErrPostNotFound is returned when a mutation targets a post that is
	// not present in the window.
	ErrPostNotFound = errors.New("post not found in feed window")

	// ErrCommentNotFound is returned when a comment delete targets an
	// unknown comment id.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrPostUnavailable is returned when a deep-linked post cannot be
	// resolved; the caller clears the link parameter.
	ErrPostUnavailable = errors.New("post unavailable")

	// ErrNoSnapshot is returned by SnapshotStore.Load when no snapshot
	// has been stored yet.
	ErrNoSnapshot = errors.New("no feed snapshot stored")
)
