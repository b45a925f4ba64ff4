// Command controller runs the active side of the stream: it drives the
// poll/response loop against a worker's DNS listener and exposes an
// interactive REPL for sending lines to it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/outrider-systems/screenstream/internal/engine"
	"github.com/outrider-systems/screenstream/internal/transport/dnschan"
	"github.com/outrider-systems/screenstream/internal/value"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:5353", "worker's DNS listener address")
	domain := flag.String("domain", "worker.screenstream.internal.", "DNS zone the worker answers for")
	timeout := flag.Duration("timeout", 5*time.Second, "inactivity timeout before OnTimeout(true) fires")
	tick := flag.Duration("tick", 200*time.Millisecond, "interval between engine ticks")
	verbose := flag.Bool("verbose", false, "log every tick's OnTimeout(false) signal")
	flag.Parse()

	t := dnschan.NewController(*serverAddr, *domain)
	recv := &replReceiver{verbose: *verbose}
	eng := engine.New(t, recv, value.StringCodec{}, *timeout)
	recv.engine = eng

	// eng.Tick and eng.Write must not run concurrently, so the REPL only
	// ever hands lines to this channel; the ticker goroutine is the sole
	// caller of both Write and Tick.
	writes := make(chan string, 16)
	ticker := time.NewTicker(*tick)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			drainWrites(eng, writes)
			eng.Tick()
		}
	}()

	runREPL(writes)
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

// runREPL reads keystrokes in raw mode so a line can be flushed the moment
// Enter is pressed, without waiting on a buffered newline. It falls back to
// plain line-buffered reads when stdin isn't a terminal (piped input,
// non-interactive test runs). Lines are handed to writes rather than
// written to the engine directly, since the REPL runs on its own goroutine.
func runREPL(writes chan<- string) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			writes <- scanner.Text()
		}
		return
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}
	fmt.Printf("📟 controller REPL (%d cols) — type a line, Enter to send, Ctrl+C to quit\n", width)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("❌ failed to enter raw mode: %v", err)
	}
	defer term.Restore(fd, oldState)

	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		switch buf[0] {
		case '\r', '\n':
			fmt.Print("\r\n")
			if len(line) > 0 {
				writes <- string(line)
				line = line[:0]
			}
		case 3: // Ctrl+C
			return
		case 127, 8: // Backspace/Delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		default:
			line = append(line, buf[0])
			fmt.Printf("%c", buf[0])
		}
	}
}

type replReceiver struct {
	verbose bool
	engine  *engine.Engine
}

func (r *replReceiver) OnData(v any) {
	fmt.Printf("\r\n✅ received: %v\r\n", v)
}

func (r *replReceiver) OnTimeout(timedOut bool, _ *engine.Engine) {
	if timedOut {
		fmt.Print("\r\n⏱️  timed out, queues reset\r\n")
		return
	}
	if r.verbose {
		fmt.Print(".")
	}
}

func (r *replReceiver) RegisterStream(stream *engine.Engine) {
	r.engine = stream
}
