package notify

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
)

// TerminalChannel flashes the terminal window title via an OSC escape
// sequence; Restore sets it back to "orchestrator". Grounded on the
// teacher's TerminalNotifier.
type TerminalChannel struct {
	out           io.Writer
	originalTitle string
	mu            sync.Mutex
}

// NewTerminalChannel builds a TerminalChannel writing to os.Stdout.
func NewTerminalChannel() *TerminalChannel {
	return &TerminalChannel{out: os.Stdout, originalTitle: "orchestrator"}
}

func (c *TerminalChannel) Name() string { return "terminal" }

func (c *TerminalChannel) IsSupported() bool {
	switch runtime.GOOS {
	case "windows", "linux", "darwin":
		return isCharDevice(os.Stdout)
	default:
		return false
	}
}

func (c *TerminalChannel) Send(n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setTitle(fmt.Sprintf("\U0001F514 %s", n.Message))
}

// Restore sets the terminal title to "orchestrator"; the title the
// terminal had before is not read or kept.
func (c *TerminalChannel) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setTitle(c.originalTitle)
}

func (c *TerminalChannel) setTitle(title string) error {
	_, err := fmt.Fprintf(c.out, "\033]0;%s\007", title)
	return err
}

func isCharDevice(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
