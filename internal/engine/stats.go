package engine

// Stats is a read-only snapshot of an Engine's lifetime counters, in the
// style of the teacher's ChunkingStats/StorageStats: a supplemental
// introspection hook that doesn't change wire behavior. DeserializeErrors
// in particular is how a failure that the protocol itself treats as silent
// (§4.2: "bubble as application errors only after checksum passed") is
// still made observable, without adding a fourth method to Receiver.
type Stats struct {
	FramesSent          int
	FramesReceivedValid int
	MessagesDelivered   int
	ChecksumDrops       int
	DeserializeErrors   int
	TimeoutsFired       int
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
