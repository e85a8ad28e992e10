//go:build js && wasm

package browser

import (
	"log/slog"
	"strings"
	"syscall/js"
)

// Console writes each log line to the browser console.
type Console struct {
	console js.Value
}

func NewConsole() *Console {
	return &Console{console: js.Global().Get("console")}
}

func (c *Console) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	method := "log"
	switch {
	case strings.Contains(line, "level=ERROR"):
		method = "error"
	case strings.Contains(line, "level=WARN"):
		method = "warn"
	}
	c.console.Call(method, line)
	return len(p), nil
}

// NewLogger returns a text logger bound to the console.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(NewConsole(), &slog.HandlerOptions{Level: level})).
		With("component", "relay")
}
