package chunk

import (
	"strings"
	"testing"

	"github.com/outrider-systems/screenstream/internal/frame"
)

type seqCounter struct{ n int }

func (s *seqCounter) NextSeq() int {
	v := s.n % 10
	s.n++
	return v
}

func TestSplitSingleChunk(t *testing.T) {
	data := []byte("short payload")
	frames, err := Split(data, 1010, &seqCounter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if !f.New || f.Remaining != 0 || f.Cmd != frame.CommandData {
		t.Fatalf("unexpected single chunk frame: %+v", f)
	}
	if f.Checksum != frame.XOR(data) {
		t.Fatalf("checksum = %x, want %x", f.Checksum, frame.XOR(data))
	}
	if string(f.Payload) != string(data) {
		t.Fatalf("payload = %q, want %q", f.Payload, data)
	}
}

func TestSplitMultiChunkDescendingRemaining(t *testing.T) {
	data := []byte(strings.Repeat("x", 25))
	frames, err := Split(data, 10, &seqCounter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	wantRemaining := []int{2, 1, 0}
	var rebuilt []byte
	for i, f := range frames {
		if f.Remaining != wantRemaining[i] {
			t.Fatalf("frame %d: remaining = %d, want %d", i, f.Remaining, wantRemaining[i])
		}
		if f.New != (i == 0) {
			t.Fatalf("frame %d: New = %v, want %v", i, f.New, i == 0)
		}
		if i > 0 && f.Checksum != 0 {
			t.Fatalf("frame %d: checksum must only be carried on the first chunk, got %x", i, f.Checksum)
		}
		rebuilt = append(rebuilt, f.Payload...)
	}
	if string(rebuilt) != string(data) {
		t.Fatalf("reassembled payload = %q, want %q", rebuilt, data)
	}
}

func TestSplitStampsAscendingSeq(t *testing.T) {
	data := []byte(strings.Repeat("y", 35))
	frames, err := Split(data, 10, &seqCounter{})
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range frames {
		if f.Seq != i {
			t.Fatalf("frame %d: seq = %d, want %d", i, f.Seq, i)
		}
	}
}

func TestSplitEmptyDataYieldsOneChunk(t *testing.T) {
	frames, err := Split(nil, 10, &seqCounter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !frames[0].New || frames[0].Remaining != 0 {
		t.Fatalf("unexpected empty-data frame: %+v", frames[0])
	}
}

func TestSplitRejectsOversizeData(t *testing.T) {
	data := make([]byte, 1010*1000)
	_, err := Split(data, 1010, &seqCounter{})
	if err == nil {
		t.Fatal("expected an error for oversize data")
	}
	if err.Error() != "Too large data" {
		t.Fatalf("got error %q, want %q", err.Error(), "Too large data")
	}
}

func TestSplitRejectsNonPositiveDataSize(t *testing.T) {
	if _, err := Split([]byte("x"), 0, &seqCounter{}); err == nil {
		t.Fatal("expected an error for zero data size")
	}
}
