package frame

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Frame{
		{New: true, Checksum: 0xAB, Remaining: 3, Seq: 0, Cmd: CommandData, Payload: []byte("hello")},
		{New: false, Checksum: 0, Remaining: 0, Seq: 9, Cmd: CommandData, Payload: nil},
		{New: true, Checksum: 0, Remaining: 0, Seq: 4, Cmd: CommandPoll, Payload: nil},
		{New: true, Checksum: 0, Remaining: 0, Seq: 4, Cmd: CommandAck, Payload: nil},
		{New: true, Checksum: 0, Remaining: 0, Seq: 4, Cmd: CommandReset, Payload: nil},
	}

	for _, want := range cases {
		encoded, err := Encode(want)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", want, err)
		}
		got, ok := Decode(encoded)
		if !ok {
			t.Fatalf("Decode(%q) failed to parse a string we just encoded", encoded)
		}
		if got.New != want.New || got.Checksum != want.Checksum || got.Remaining != want.Remaining ||
			got.Seq != want.Seq || got.Cmd != want.Cmd || string(got.Payload) != string(want.Payload) {
			t.Fatalf("round trip mismatch: encoded %q, want %+v, got %+v", encoded, want, got)
		}
	}
}

func TestEncodeFixedWidths(t *testing.T) {
	encoded, err := Encode(Frame{New: true, Checksum: 1, Remaining: 7, Seq: 3, Cmd: CommandData, Payload: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	// "#1|01|007|3|03" + "x"
	want := "#1|01|007|3|03x"
	if encoded != want {
		t.Fatalf("got %q, want %q", encoded, want)
	}
	if len(encoded)-len("x") != Overhead {
		t.Fatalf("header length = %d, want Overhead = %d", len(encoded)-len("x"), Overhead)
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	cases := []Frame{
		{Remaining: 1000, Seq: 0, Cmd: CommandData},
		{Remaining: -1, Seq: 0, Cmd: CommandData},
		{Remaining: 0, Seq: 10, Cmd: CommandData},
		{Remaining: 0, Seq: -1, Cmd: CommandData},
		{Remaining: 0, Seq: 0, Cmd: Command(4)},
	}
	for _, f := range cases {
		if _, err := Encode(f); err == nil {
			t.Fatalf("Encode(%+v): expected error, got nil", f)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a frame at all",
		"1|00|000|0|00",          // missing leading marker
		"#2|00|000|0|00",         // new digit must be 0 or 1
		"#1|zz|000|0|00",         // checksum must be hex
		"#1|00|00|0|00",          // remaining must be exactly 3 digits
		"#1|00|000|10|00",        // seq must be exactly 1 digit
		"#1|00|000|0|9",          // cmd truncated to 1 digit
		"#1|00|000|0|99payload",  // cmd out of [0,3] range
	}
	for _, s := range cases {
		if _, ok := Decode(s); ok {
			t.Fatalf("Decode(%q): expected failure, parsed successfully", s)
		}
	}
}

func TestXORChecksum(t *testing.T) {
	if got := XOR(nil); got != 0 {
		t.Fatalf("XOR(nil) = %d, want 0", got)
	}
	data := []byte{0x01, 0x02, 0x03}
	want := byte(0x01 ^ 0x02 ^ 0x03)
	if got := XOR(data); got != want {
		t.Fatalf("XOR(%v) = %x, want %x", data, got, want)
	}
}
