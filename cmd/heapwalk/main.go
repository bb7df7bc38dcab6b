// cmd/heapwalk/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"

	"github.com/sentra-lang/heapvar/internal/heap"
	"github.com/sentra-lang/heapvar/internal/heap/herr"
	"github.com/sentra-lang/heapvar/internal/iter"
)

// Build variables, set during build with ldflags.
var (
	BuildDate = time.Now().Format("2006-01-02")
	GitCommit = "unknown"
)

const VERSION = "0.1.0"

// bufSize is the to-bytes sink's destination buffer size, a plain
// package-level var (SPEC_FULL.md §7: not worth a config-file library for
// two knobs).
var bufSize = 64

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "demo":
		runDemo(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "heapwalk: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`heapwalk - build a small heap value and walk it

Usage:
  heapwalk demo <shape> [--debug] [--to-bytes]
  heapwalk --version
  heapwalk --help

Shapes:
  string      a string chain split across small cells
  array       a dense three-element array walked with the full-array overlay
  typedview   a big-endian int32 typed-array view
  datacount   a {data, count} structured source
  callback    a {callback} structured source`)
}

func showVersion() {
	fmt.Printf("heapwalk %s (build %s, commit %s)\n", VERSION, BuildDate, GitCommit)
}

func colorize(code, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func runDemo(args []string) {
	debug := false
	toBytes := -1
	var shape string
	for _, a := range args {
		switch {
		case a == "--debug":
			debug = true
		case a == "--to-bytes":
			toBytes = bufSize
		case shape == "":
			shape = a
		}
	}
	if shape == "" {
		fmt.Fprintln(os.Stderr, "heapwalk: demo requires a shape argument")
		os.Exit(1)
	}

	pool := heap.NewPool()
	value, err := buildDemoValue(pool, shape)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapwalk:", err)
		os.Exit(1)
	}

	if debug {
		walkID := uuid.New()
		fmt.Fprintf(os.Stderr, "%s walk %s over %s\n",
			colorize("36", "[debug]"), walkID, value.Kind())
		fmt.Fprintf(os.Stderr, "%s\n", pretty.Sprintf("%# v", value))
	}

	reporter := &herr.CollectingReporter{}

	if toBytes >= 0 {
		buf := make([]byte, toBytes)
		sink := iter.NewToBytesSink(buf)
		ok := iter.IterateCallback(value, sink, reporter)
		if !ok {
			fmt.Fprintln(os.Stderr, colorize("31", "error:"), reporter.Last())
			os.Exit(1)
		}
		written := sink.Count()
		if written > len(buf) {
			written = len(buf)
		}
		fmt.Printf("wrote %s into a %s buffer, %s bytes total\n",
			humanize.Comma(int64(written)), humanize.Bytes(uint64(len(buf))),
			humanize.Comma(int64(sink.Count())))
		fmt.Printf("% X\n", buf[:written])
		return
	}

	sink := &iter.CountSink{}
	ok := iter.IterateCallback(value, sink, reporter)
	if !ok {
		fmt.Fprintln(os.Stderr, colorize("31", "error:"), reporter.Last())
		os.Exit(1)
	}
	fmt.Printf("walked %s produced integers\n", humanize.Comma(int64(sink.Count())))
}

func buildDemoValue(p *heap.Pool, shape string) (*heap.Cell, error) {
	switch shape {
	case "string":
		return p.NewStringFromBytesWithCapacity([]byte("the quick brown fox"), 8, 16), nil
	case "array":
		// Dense on purpose: a FULL-ARRAY hole is a type error to the
		// callback walker (jsvariterator.c:96-109), so a demo meant to
		// complete successfully can't contain one.
		arr := p.NewArray()
		arr.SetArrayItem(0, p.NewInt(10))
		arr.SetArrayItem(1, p.NewInt(20))
		arr.SetArrayItem(2, p.NewInt(30))
		return arr, nil
	case "typedview":
		backing := p.NewStringFromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFE})
		return p.NewArrayBufferView(heap.Int32.BE(), backing, 0, 1), nil
	case "datacount":
		obj := p.NewObject()
		obj.AddNamedChild("data", p.NewInt(7))
		obj.AddNamedChild("count", p.NewInt(3))
		return obj, nil
	case "callback":
		obj := p.NewObject()
		cb := p.NewNativeFunction("demo", func(this *heap.Cell, args []*heap.Cell) (*heap.Cell, error) {
			arr := p.NewArray()
			arr.SetArrayItem(0, p.NewInt(1))
			arr.SetArrayItem(1, p.NewInt(2))
			arr.SetArrayItem(2, p.NewInt(3))
			return arr, nil
		})
		obj.AddNamedChild("callback", cb)
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
}
