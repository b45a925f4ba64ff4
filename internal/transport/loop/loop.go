// Package loop provides an in-memory loopback transport pair for tests and
// local demonstration: two endpoints sharing a single-slot mailbox in each
// direction, with optional fault injection so a harness can interleave
// ticks and simulate an asynchronous, lossy link.
//
// Grounded on the teacher's internal/dns-server/storage.go MemoryStorage: a
// mutex-guarded in-memory state holder with a stats snapshot, adapted here
// from a many-message queue into a single-slot, overwrite-on-write mailbox
// per direction.
package loop

import "sync"

type mailbox struct {
	mu            sync.Mutex
	value         string
	lastDelivered string
	dropNext      int
	dupNext       int
}

func (m *mailbox) send(frame string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropNext > 0 {
		m.dropNext--
		return
	}
	m.value = frame
}

func (m *mailbox) read() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dupNext > 0 {
		m.dupNext--
		return m.lastDelivered
	}
	m.lastDelivered = m.value
	return m.value
}

func (m *mailbox) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
}

// Endpoint is one side of a loopback pair.
type Endpoint struct {
	blockSize    int
	isController bool
	out          *mailbox
	in           *mailbox
}

// NewPair builds a connected controller/worker endpoint pair sharing one
// mailbox per direction. blockSize is reported by both endpoints'
// BlockSize.
func NewPair(blockSize int) (controller *Endpoint, worker *Endpoint) {
	c2w := &mailbox{}
	w2c := &mailbox{}
	controller = &Endpoint{blockSize: blockSize, isController: true, out: c2w, in: w2c}
	worker = &Endpoint{blockSize: blockSize, isController: false, out: w2c, in: c2w}
	return controller, worker
}

func (e *Endpoint) Send(frame string)  { e.out.send(frame) }
func (e *Endpoint) Read() string       { return e.in.read() }
func (e *Endpoint) Clear()             { e.out.clear() }
func (e *Endpoint) BlockSize() int     { return e.blockSize }
func (e *Endpoint) IsController() bool { return e.isController }

// DropNextSend causes the next n calls to Send on this endpoint to be
// silently discarded, simulating a dropped write.
func (e *Endpoint) DropNextSend(n int) {
	e.out.mu.Lock()
	e.out.dropNext += n
	e.out.mu.Unlock()
}

// DuplicateNextRead causes the next n calls to Read on this endpoint to
// return the previously delivered value even if a newer one has since been
// written, simulating a stale or lagging read.
func (e *Endpoint) DuplicateNextRead(n int) {
	e.in.mu.Lock()
	e.in.dupNext += n
	e.in.mu.Unlock()
}
