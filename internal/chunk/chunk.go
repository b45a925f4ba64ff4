// Package chunk implements the outbound chunker: splitting a serialized
// value into frame-sized Data chunks tagged with a descending
// remaining-chunks count.
package chunk

import (
	"errors"
	"fmt"

	"github.com/outrider-systems/screenstream/internal/frame"
)

// MaxChunks is the largest number of chunks a single logical message may
// require; Split rejects anything larger.
const MaxChunks = 999

// ErrTooLarge is the single checked error this package raises. Its message
// is part of the external contract: callers (and the engine's Write) must
// surface it verbatim.
var ErrTooLarge = errors.New("Too large data")

// SeqSource stamps each encoded frame with the sender's next output
// sequence number. It is satisfied by the engine's output queue state,
// kept decoupled here so the chunker doesn't need to know about the rest
// of the engine.
type SeqSource interface {
	NextSeq() int
}

// Split cuts already-serialized data into a sequence of Data frames, each carrying at
// most dataSize bytes of payload. The first frame carries New=true and the
// checksum of the whole message; the last carries Remaining=0. Each frame
// is stamped with the next sequence number from seqs, in order.
func Split(data []byte, dataSize int, seqs SeqSource) ([]frame.Frame, error) {
	if dataSize <= 0 {
		return nil, fmt.Errorf("chunk: non-positive data size %d", dataSize)
	}

	total := blockCount(len(data), dataSize)
	if total > MaxChunks {
		return nil, ErrTooLarge
	}

	checksum := frame.XOR(data)
	frames := make([]frame.Frame, 0, total)
	for i := 0; i < total; i++ {
		start := i * dataSize
		end := start + dataSize
		if end > len(data) {
			end = len(data)
		}

		f := frame.Frame{
			New:       i == 0,
			Remaining: total - 1 - i,
			Seq:       seqs.NextSeq(),
			Cmd:       frame.CommandData,
			Payload:   data[start:end],
		}
		if i == 0 {
			f.Checksum = checksum
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// blockCount is the number of chunks needed to carry n bytes at dataSize
// bytes per chunk, with a single (possibly empty) chunk for zero-length
// data.
func blockCount(n, dataSize int) int {
	if n == 0 {
		return 1
	}
	count := n / dataSize
	if n%dataSize != 0 {
		count++
	}
	return count
}
