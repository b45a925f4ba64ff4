// Command worker runs the reactive side of the stream: it answers the
// controller's DNS TXT polls, drains its own output queue opportunistically,
// and prints every delivered message.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/outrider-systems/screenstream/internal/engine"
	"github.com/outrider-systems/screenstream/internal/transport/dnschan"
	"github.com/outrider-systems/screenstream/internal/value"
)

func main() {
	addr := flag.String("addr", ":5353", "UDP address to listen on for controller queries")
	domain := flag.String("domain", "worker.screenstream.internal.", "DNS zone this worker answers for")
	timeout := flag.Duration("timeout", 5*time.Second, "inactivity timeout before OnTimeout(true) fires")
	tick := flag.Duration("tick", 200*time.Millisecond, "interval between engine ticks")
	flag.Parse()

	t := dnschan.NewWorker(*addr, *domain)
	recv := &statusReceiver{label: "worker"}
	eng := engine.New(t, recv, value.StringCodec{}, *timeout)
	recv.engine = eng

	log.Printf("📡 worker listening on %s for zone %s", *addr, *domain)
	go func() {
		if err := t.ListenAndServe(); err != nil {
			log.Fatalf("❌ dns listener failed: %v", err)
		}
	}()

	// eng.Tick and eng.Write must not run concurrently, so the stdin reader
	// only ever hands lines to this channel; the ticker goroutine is the
	// sole caller of both Write and Tick.
	writes := make(chan string, 16)
	go readLines(writes)

	ticker := time.NewTicker(*tick)
	defer ticker.Stop()
	for range ticker.C {
		drainWrites(eng, writes)
		eng.Tick()
	}
}

// readLines feeds an operator's stdin lines into writes, one message per
// line, for the tick goroutine to hand to eng.Write.
func readLines(writes chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		writes <- scanner.Text()
	}
	close(writes)
}

// drainWrites applies every line queued on writes to eng without blocking,
// keeping Write and Tick confined to this single goroutine.
func drainWrites(eng *engine.Engine, writes <-chan string) {
	for {
		select {
		case line, ok := <-writes:
			if !ok {
				return
			}
			if err := eng.Write(line); err != nil {
				log.Printf("❌ write failed: %v", err)
			}
		default:
			return
		}
	}
}

type statusReceiver struct {
	label  string
	engine *engine.Engine
}

func (r *statusReceiver) OnData(v any) {
	log.Printf("✅ [%s] received: %v", r.label, v)
}

func (r *statusReceiver) OnTimeout(timedOut bool, _ *engine.Engine) {
	if timedOut {
		log.Printf("⏱️  [%s] timed out, queues reset", r.label)
	}
}

func (r *statusReceiver) RegisterStream(stream *engine.Engine) {
	r.engine = stream
}
