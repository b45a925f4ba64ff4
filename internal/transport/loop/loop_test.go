package loop

import "testing"

func TestSendReadRoundTrip(t *testing.T) {
	c, w := NewPair(512)
	if c.BlockSize() != 512 || w.BlockSize() != 512 {
		t.Fatal("both endpoints should report the shared block size")
	}
	if !c.IsController() || w.IsController() {
		t.Fatal("NewPair must return (controller, worker) in that order")
	}

	c.Send("#1|00|000|0|01")
	if got := w.Read(); got != "#1|00|000|0|01" {
		t.Fatalf("worker read %q, want the controller's frame", got)
	}
}

func TestReadIsNonDestructive(t *testing.T) {
	c, w := NewPair(512)
	c.Send("hello")
	first := w.Read()
	second := w.Read()
	if first != second || first != "hello" {
		t.Fatalf("repeated reads without an intervening send must be idempotent: got %q then %q", first, second)
	}
}

func TestDropNextSend(t *testing.T) {
	c, w := NewPair(512)
	c.Send("one")
	c.DropNextSend(1)
	c.Send("two")
	if got := w.Read(); got != "one" {
		t.Fatalf("dropped send should leave the previous value in place, got %q", got)
	}
	c.Send("three")
	if got := w.Read(); got != "three" {
		t.Fatalf("sends after the dropped one should go through, got %q", got)
	}
}

func TestDuplicateNextRead(t *testing.T) {
	c, w := NewPair(512)
	c.Send("first")
	if got := w.Read(); got != "first" {
		t.Fatalf("got %q, want %q", got, "first")
	}
	c.Send("second")
	w.DuplicateNextRead(1)
	if got := w.Read(); got != "first" {
		t.Fatalf("duplicated read should still surface the previously delivered value, got %q", got)
	}
	if got := w.Read(); got != "second" {
		t.Fatalf("the read after the duplicated one should see the new value, got %q", got)
	}
}

func TestClearResetsOutbound(t *testing.T) {
	c, w := NewPair(512)
	c.Send("value")
	c.Clear()
	if got := w.Read(); got != "" {
		t.Fatalf("after Clear, the peer should read an empty string, got %q", got)
	}
}
