package engine

// outputState is a side's Output queue record (§3): pre-encoded frames
// ready to transmit, the controller's single-outstanding-request flag, and
// the seq counter stamped on every encoded frame.
type outputState struct {
	queue           []string
	waitingForReply bool
	seq             int
}

// NextSeq stamps the next encoded frame and advances the counter by one,
// wrapping 9->0. It implements chunk.SeqSource.
func (o *outputState) NextSeq() int {
	s := o.seq
	o.seq = (o.seq + 1) % 10
	return s
}

func (o *outputState) popHead() (string, bool) {
	if len(o.queue) == 0 {
		return "", false
	}
	head := o.queue[0]
	o.queue = o.queue[1:]
	return head, true
}

func (o *outputState) clear() {
	o.queue = nil
	o.waitingForReply = false
}

// inputState is a side's Input queue record (§3): the last accepted
// inbound seq (-1 until the first frame arrives).
type inputState struct {
	seq int
}

func newInputState() inputState {
	return inputState{seq: -1}
}
