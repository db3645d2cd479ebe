package manifest

import "errors"

var (
	// ErrUnreachableState marks a foundPageBy tag outside the enumerated
	// set. This is a programming defect in the producer, not a recoverable
	// condition: it aborts the batch before the summary and clear run.
	ErrUnreachableState = errors.New("unreachable state")

	// ErrArtifactWrite wraps I/O failures while persisting one artifact.
	// Write failures are isolated per request and never abort siblings.
	ErrArtifactWrite = errors.New("artifact write failed")
)
