// Package logging contains the log handlers used on the command line.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bep/logg"
	"github.com/fatih/color"
)

// The field printed as a prefix to the message instead of as a field.
const cmdField = "cmd"

var bold = color.New(color.Bold)

// Colors mapping.
var Colors = [...]*color.Color{
	logg.LevelDebug: color.New(color.FgWhite),
	logg.LevelInfo:  color.New(color.FgBlue),
	logg.LevelWarn:  color.New(color.FgYellow),
	logg.LevelError: color.New(color.FgRed),
}

// Strings mapping.
var Strings = [...]string{
	logg.LevelDebug: "•",
	logg.LevelInfo:  "•",
	logg.LevelWarn:  "•",
	logg.LevelError: "⨯",
}

// Handler writes info and below to one writer and warnings and errors to another.
// Based on https://github.com/apex/log/blob/master/handlers/cli/cli.go
type Handler struct {
	mu        sync.Mutex
	outWriter io.Writer
	errWriter io.Writer
	colours   bool

	Padding int
}

// NewDefaultHandler creates a Handler with colours.
func NewDefaultHandler(outWriter, errWriter io.Writer) *Handler {
	return &Handler{
		outWriter: outWriter,
		errWriter: errWriter,
		colours:   true,
		Padding:   3,
	}
}

// NewNoColoursHandler creates a Handler without colours or level symbols,
// suitable for log files and CI logs.
func NewNoColoursHandler(outWriter, errWriter io.Writer) *Handler {
	return &Handler{
		outWriter: outWriter,
		errWriter: errWriter,
	}
}

// HandleLog implements logg.Handler.
func (h *Handler) HandleLog(e *logg.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := h.outWriter
	if e.Level > logg.LevelInfo {
		w = h.errWriter
	}

	// The last cmd field wins, the most specific command.
	var prefix string
	for _, field := range e.Fields {
		if field.Name == cmdField {
			prefix = strings.ToUpper(fmt.Sprint(field.Value)) + ":\t"
		}
	}

	sprint := fmt.Sprint
	if h.colours && int(e.Level) < len(Colors) && Colors[e.Level] != nil {
		c := Colors[e.Level]
		sprint = c.Sprint
		fmt.Fprintf(w, "%s ", bold.Sprintf("%*s", h.Padding+1, Strings[e.Level]))
	}

	fmt.Fprintf(w, "%s%s", sprint(prefix), e.Message)

	for _, field := range e.Fields {
		if field.Name == cmdField {
			continue
		}
		fmt.Fprintf(w, " %s %v", sprint(field.Name), field.Value)
	}

	fmt.Fprintln(w)

	return nil
}
