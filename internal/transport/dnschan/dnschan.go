// Package dnschan implements the stream's second Transport instance (besides
// the in-memory loopback): a DNS TXT query/response pair, wiring
// github.com/miekg/dns — the teacher repository's actual transport
// dependency — into the abstract capability set of internal/transport.
//
// A DNS query/answer exchange is itself a poll/response round trip, which
// maps naturally onto the engine's "write the current outbound string,
// read the current inbound string" model: the controller's outbound frame
// rides in the query name (hex-encoded across DNS labels); the worker's
// outbound frame rides in the TXT answer.
//
// Grounded on the teacher's cmd/dns-server/main.go (dns.Server wiring) and
// internal/chunker/dns_encoder.go (DNS label sanitization, the 63-char
// label budget) — adapted from a many-record exfiltration channel to a
// single round trip per Send.
package dnschan

import (
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

const (
	maxLabelLen = 63

	// BlockSize is conservative relative to MAX_DNS_STRING_SIZE found in
	// the teacher's chunker package: the query name carries the frame
	// hex-encoded (doubling its size) split across dotted labels, and a
	// full DNS name is capped at 255 bytes including the zone suffix. 96
	// bytes of frame keeps the encoded name and its dots comfortably
	// under that ceiling for any zone name of reasonable length.
	BlockSize = 96
)

// Worker answers DNS TXT queries for domain with the frame most recently
// handed to Send, and records the most recently observed query name as the
// current inbound frame.
type Worker struct {
	domain string
	server *dns.Server

	mu       sync.Mutex
	outbound string
	inbound  string
}

// NewWorker builds a worker-side DNS transport listening on addr for
// queries under domain. Start it with ListenAndServe.
func NewWorker(addr, domain string) *Worker {
	w := &Worker{domain: qualify(domain)}
	mux := dns.NewServeMux()
	mux.HandleFunc(w.domain, w.handle)
	w.server = &dns.Server{Addr: addr, Net: "udp", Handler: mux}
	return w
}

// ListenAndServe starts the worker's DNS listener; it blocks until
// Shutdown is called or the listener fails.
func (w *Worker) ListenAndServe() error { return w.server.ListenAndServe() }

// Shutdown stops the worker's DNS listener.
func (w *Worker) Shutdown() error { return w.server.Shutdown() }

func (w *Worker) handle(rw dns.ResponseWriter, req *dns.Msg) {
	msg := new(dns.Msg)
	msg.SetReply(req)

	if len(req.Question) == 1 {
		q := req.Question[0]

		w.mu.Lock()
		w.inbound = decodeName(q.Name, w.domain)
		outbound := w.outbound
		w.mu.Unlock()

		msg.Answer = append(msg.Answer, &dns.TXT{
			Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 0},
			Txt: []string{outbound},
		})
	}
	_ = rw.WriteMsg(msg)
}

func (w *Worker) Send(frame string) {
	w.mu.Lock()
	w.outbound = frame
	w.mu.Unlock()
}

func (w *Worker) Read() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inbound
}

func (w *Worker) Clear() {
	w.mu.Lock()
	w.outbound = ""
	w.mu.Unlock()
}

func (w *Worker) BlockSize() int     { return BlockSize }
func (w *Worker) IsController() bool { return false }

// Controller issues a TXT query for every Send, carrying the outbound
// frame in the query name, and surfaces whatever the most recent reply's
// first TXT string was as its current inbound frame. Send is fire-and-
// forget: the exchange runs in its own goroutine and updates the inbound
// slot asynchronously, matching the abstract transport's non-blocking,
// non-destructive-read contract.
type Controller struct {
	client     *dns.Client
	serverAddr string
	domain     string

	mu       sync.Mutex
	inbound  string
}

// NewController builds a controller-side DNS transport that queries
// serverAddr for names under domain.
func NewController(serverAddr, domain string) *Controller {
	return &Controller{
		client:     &dns.Client{Net: "udp", Timeout: 2 * time.Second},
		serverAddr: serverAddr,
		domain:     qualify(domain),
	}
}

func (c *Controller) Send(frame string) {
	name := encodeName(frame, c.domain)
	go c.exchange(name)
}

func (c *Controller) exchange(name string) {
	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypeTXT)

	reply, _, err := c.client.Exchange(msg, c.serverAddr)
	if err != nil || reply == nil {
		return
	}
	for _, rr := range reply.Answer {
		if txt, ok := rr.(*dns.TXT); ok && len(txt.Txt) > 0 {
			c.mu.Lock()
			c.inbound = txt.Txt[0]
			c.mu.Unlock()
			return
		}
	}
}

func (c *Controller) Read() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inbound
}

func (c *Controller) Clear() {
	c.mu.Lock()
	c.inbound = ""
	c.mu.Unlock()
}

func (c *Controller) BlockSize() int     { return BlockSize }
func (c *Controller) IsController() bool { return true }

func qualify(domain string) string {
	return strings.TrimSuffix(domain, ".") + "."
}

// encodeName hex-encodes frame and splits it across dotted DNS labels no
// longer than maxLabelLen, suffixed with domain.
func encodeName(frame, domain string) string {
	encoded := hex.EncodeToString([]byte(frame))

	var labels []string
	for len(encoded) > maxLabelLen {
		labels = append(labels, encoded[:maxLabelLen])
		encoded = encoded[maxLabelLen:]
	}
	if len(encoded) > 0 {
		labels = append(labels, encoded)
	}
	return strings.Join(labels, ".") + "." + domain
}

// decodeName reverses encodeName, returning "" if name doesn't carry a
// well-formed hex-encoded frame under domain.
func decodeName(name, domain string) string {
	trimmed := strings.TrimSuffix(name, domain)
	trimmed = strings.TrimSuffix(trimmed, ".")
	hexStr := strings.ReplaceAll(trimmed, ".", "")

	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return ""
	}
	return string(raw)
}
