// Command simulate runs a controller and a worker engine in one process
// over the in-memory loopback transport, with optional fault injection, to
// exercise the protocol end-to-end without a real transport.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/outrider-systems/screenstream/internal/engine"
	"github.com/outrider-systems/screenstream/internal/transport/loop"
	"github.com/outrider-systems/screenstream/internal/value"
)

func main() {
	blockSize := flag.Int("block-size", 1024, "simulated transport block size in bytes")
	ticks := flag.Int("ticks", 20, "number of paired ticks to run")
	dropEvery := flag.Int("drop-every", 0, "simulate a dropped controller send every N ticks (0 disables)")
	flag.Parse()

	cTransport, wTransport := loop.NewPair(*blockSize)

	controllerRecv := &banner{label: "controller"}
	workerRecv := &banner{label: "worker"}

	cEng := engine.New(cTransport, controllerRecv, value.StringCodec{}, 2*time.Second)
	wEng := engine.New(wTransport, workerRecv, value.StringCodec{}, 2*time.Second)
	controllerRecv.engine = cEng
	workerRecv.engine = wEng

	fmt.Println("📊 SIMULATION START")
	fmt.Printf("   block size: %d bytes, payload per chunk: %d bytes\n", *blockSize, *blockSize-13-1)

	if err := cEng.Write("hello from the controller"); err != nil {
		fmt.Printf("❌ controller write failed: %v\n", err)
	}
	if err := wEng.Write("hello from the worker"); err != nil {
		fmt.Printf("❌ worker write failed: %v\n", err)
	}

	for i := 0; i < *ticks; i++ {
		if *dropEvery > 0 && i%(*dropEvery) == 0 {
			cTransport.DropNextSend(1)
			fmt.Printf("   (tick %d) dropped controller send\n", i)
		}
		cEng.Tick()
		wEng.Tick()
	}

	fmt.Println("🔧 SIMULATION STATS")
	fmt.Printf("   controller: %+v\n", cEng.Stats())
	fmt.Printf("   worker:     %+v\n", wEng.Stats())
}

type banner struct {
	label  string
	engine *engine.Engine
}

func (b *banner) OnData(v any) {
	fmt.Printf("✅ [%s] delivered: %v\n", b.label, v)
}

func (b *banner) OnTimeout(timedOut bool, _ *engine.Engine) {
	if timedOut {
		fmt.Printf("⏱️  [%s] timeout\n", b.label)
	}
}

func (b *banner) RegisterStream(stream *engine.Engine) {
	b.engine = stream
}
