// Package assemble implements the inbound assembler: it accumulates the
// chunks of one logical message and validates completeness and checksum
// before the message is handed off for delivery.
package assemble

import "github.com/outrider-systems/screenstream/internal/frame"

// Assembler holds the state of the logical message currently being
// reassembled. At most one message is ever under assembly; a fresh New=1
// frame discards whatever was previously in progress.
type Assembler struct {
	chunks           [][]byte
	expectedChecksum uint8
}

// New returns an empty assembler.
func New() *Assembler {
	return &Assembler{}
}

// BeginNew starts assembling a new logical message, discarding any partial
// assembly that was in progress.
func (a *Assembler) BeginNew(checksum uint8) {
	a.chunks = a.chunks[:0]
	a.expectedChecksum = checksum
}

// Append pushes a chunk's payload onto the tail of the current assembly.
func (a *Assembler) Append(payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	a.chunks = append(a.chunks, cp)
}

// Reset discards any in-progress assembly without attempting completion,
// used on a Reset control frame.
func (a *Assembler) Reset() {
	a.chunks = nil
	a.expectedChecksum = 0
}

// TryComplete inspects the remaining-chunks count carried by the frame that
// triggered this call. If remaining is nonzero, the message is not yet
// complete and TryComplete is a no-op (complete is false). If remaining is
// zero, the accumulated chunks are concatenated and checksummed: complete is
// true, and ok reports whether the checksum matched the value captured by
// BeginNew. If no chunk was appended since the last BeginNew, Reset or
// completion, there is nothing to deliver and ok is false. The assembly is
// cleared in every outcome once complete, matching the "discard on
// mismatch, continue" error policy.
func (a *Assembler) TryComplete(remaining int) (data []byte, ok bool, complete bool) {
	if remaining > 0 {
		return nil, false, false
	}
	if len(a.chunks) == 0 {
		a.expectedChecksum = 0
		return nil, false, true
	}

	var buf []byte
	for _, c := range a.chunks {
		buf = append(buf, c...)
	}
	expected := a.expectedChecksum
	a.chunks = nil
	a.expectedChecksum = 0

	if frame.XOR(buf) != expected {
		return nil, false, true
	}
	return buf, true, true
}
