// Package engine implements the tick state machine (§4.4): per-tick
// protocol logic for duplicate suppression, command dispatch, poll/ack
// generation, and timeout detection and recovery. It is the stream
// protocol's core; everything else in this repository is either a
// transport adapter or application glue wired around an Engine.
package engine

import (
	"fmt"
	"time"

	"github.com/outrider-systems/screenstream/internal/assemble"
	"github.com/outrider-systems/screenstream/internal/chunk"
	"github.com/outrider-systems/screenstream/internal/frame"
	"github.com/outrider-systems/screenstream/internal/transport"
)

// Role distinguishes the controller (active) from the worker (reactive)
// side of the stream. It is consulted as a plain branch inside Tick, never
// as a polymorphic subclass (§9).
type Role int

const (
	RoleWorker Role = iota
	RoleController
)

// Engine is one side of the stream: bound to a transport, a receiver, and a
// timeout for its whole lifetime. It is not safe for concurrent use; Tick
// and Write must be called from a single goroutine (§5).
type Engine struct {
	transport  transport.Transport
	receiver   Receiver
	serializer Serializer
	timeout    time.Duration
	now        func() time.Time
	role       Role

	out        outputState
	in         inputState
	assembler  *assemble.Assembler
	lastReceived time.Time
	stats      Stats
}

// New constructs an Engine bound to t, delivering to r via s, with the
// given inactivity timeout. It clears the transport immediately and calls
// r.RegisterStream once, per §3's lifecycle.
func New(t transport.Transport, r Receiver, s Serializer, timeout time.Duration, opts ...Option) *Engine {
	e := &Engine{
		transport:  t,
		receiver:   r,
		serializer: s,
		timeout:    timeout,
		now:        time.Now,
		assembler:  assemble.New(),
		in:         newInputState(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if t.IsController() {
		e.role = RoleController
	} else {
		e.role = RoleWorker
	}

	e.lastReceived = e.now()
	e.transport.Clear()
	e.receiver.RegisterStream(e)
	return e
}

// WaitingToSend reports whether this engine has queued output not yet
// transmitted.
func (e *Engine) WaitingToSend() bool {
	return len(e.out.queue) > 0
}

// Write serializes v, chunks it into frame-sized Data frames, and appends
// them to the output queue in order. When v's serialized form would require
// more than 999 chunks it returns the literal "Too large data" error
// unwrapped and enqueues nothing; a serializer failure is returned wrapped.
func (e *Engine) Write(v any) error {
	data, err := e.serializer.Serialize(v)
	if err != nil {
		return fmt.Errorf("engine: serialize: %w", err)
	}

	dataSize := e.transport.BlockSize() - frame.Overhead
	frames, err := chunk.Split(data, dataSize, &e.out)
	if err != nil {
		return err
	}

	for _, f := range frames {
		encoded, err := frame.Encode(f)
		if err != nil {
			return fmt.Errorf("engine: encode: %w", err)
		}
		e.out.queue = append(e.out.queue, encoded)
	}
	return nil
}

// Tick runs one pass of the protocol: read, filter duplicates, dispatch by
// role, check for timeout, and (for the controller) keep the single
// outstanding request alive. It performs no I/O beyond the transport and
// the receiver callbacks, and never blocks.
func (e *Engine) Tick() {
	now := e.now()

	raw := e.transport.Read()
	f, ok := frame.Decode(raw)
	isNew := ok && f.Seq != e.in.seq

	if isNew {
		e.in.seq = f.Seq
		e.stats.FramesReceivedValid++
		e.receiver.OnTimeout(false, e)
		e.lastReceived = now

		if f.New {
			e.assembler.BeginNew(f.Checksum)
		}

		switch e.role {
		case RoleController:
			e.dispatchController(f)
		case RoleWorker:
			e.dispatchWorker(f)
		}
	}

	if now.Sub(e.lastReceived) >= e.timeout {
		e.stats.TimeoutsFired++
		e.receiver.OnTimeout(true, e)
		e.lastReceived = now
		e.out.clear()
		e.assembler.Reset()
	}

	if e.role == RoleController && !e.out.waitingForReply {
		e.sendHeadOr(frame.CommandPoll)
		e.out.waitingForReply = true
	}
}

func (e *Engine) dispatchController(f frame.Frame) {
	if f.Cmd == frame.CommandData {
		e.assembler.Append(f.Payload)
		e.tryDeliver(f.Remaining)
	}
	// Any command closes out the single outstanding request.
	e.out.waitingForReply = false
}

func (e *Engine) dispatchWorker(f frame.Frame) {
	switch f.Cmd {
	case frame.CommandData:
		e.assembler.Append(f.Payload)
		e.tryDeliver(f.Remaining)
		e.sendHeadOr(frame.CommandAck)
	case frame.CommandPoll:
		e.sendHeadOr(frame.CommandAck)
	case frame.CommandReset:
		e.out.clear()
		e.assembler.Reset()
		e.sendControl(frame.CommandAck)
	}
}

// tryDeliver asks the assembler whether the message is complete given the
// last frame's remaining count, and delivers it to the receiver if its
// checksum was valid. Incomplete assemblies, checksum mismatches, and
// deserialization failures are all silent per §7; the latter two are still
// counted in Stats.
func (e *Engine) tryDeliver(remaining int) {
	data, ok, complete := e.assembler.TryComplete(remaining)
	if !complete {
		return
	}
	if !ok {
		e.stats.ChecksumDrops++
		return
	}

	v, err := e.serializer.Deserialize(data)
	if err != nil {
		e.stats.DeserializeErrors++
		return
	}

	e.stats.MessagesDelivered++
	e.receiver.OnData(v)
}

// sendHeadOr sends the head of the output queue if one is queued,
// otherwise encodes and sends a content-free control frame of kind cmd.
func (e *Engine) sendHeadOr(cmd frame.Command) {
	if head, ok := e.out.popHead(); ok {
		e.transport.Send(head)
		e.stats.FramesSent++
		return
	}
	e.sendControl(cmd)
}

// sendControl encodes and sends a content-free frame: New=1, Remaining=0,
// Checksum=0, empty payload, stamped with the next output sequence number.
func (e *Engine) sendControl(cmd frame.Command) {
	encoded, err := frame.Encode(frame.Frame{
		New:       true,
		Remaining: 0,
		Seq:       e.out.NextSeq(),
		Cmd:       cmd,
	})
	if err != nil {
		// cmd and the fixed fields above are always in range; this
		// path is unreachable.
		return
	}
	e.transport.Send(encoded)
	e.stats.FramesSent++
}
