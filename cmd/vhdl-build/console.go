package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// consoleWriter renders zerolog's JSON events as colored single-line
// console output.
type consoleWriter struct {
	buffer strings.Builder
	lock   sync.Mutex
}

func newConsoleWriter() *consoleWriter {
	return &consoleWriter{}
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		return 0, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal", "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	case "debug", "trace":
		w.buffer.WriteString("[blue]")
	default:
		w.buffer.WriteString("[green]")
	}

	if msg, ok := evt["message"].(string); ok {
		w.buffer.WriteString(msg)
	}
	if target, ok := evt["target"].(string); ok {
		w.buffer.WriteString(" " + target)
	}
	if unit, ok := evt["unit"].(string); ok {
		w.buffer.WriteString(" " + unit)
	}
	if errDetails, ok := evt["error"].(string); ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errDetails)
	}

	w.buffer.WriteString("[reset]\n")
	return colorstring.Fprint(os.Stderr, w.buffer.String())
}
