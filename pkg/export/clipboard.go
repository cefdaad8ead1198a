package export

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no system clipboard is available,
// for example on a headless Linux box without xclip, xsel or wl-copy.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

// Clipboard holds one piece of text.
type Clipboard interface {
	Copy(text string) error
	Paste() (string, error)
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

// Copy replaces the clipboard contents.
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// Paste returns the clipboard contents.
func (SystemClipboard) Paste() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

// MemoryClipboard is an in-process clipboard. The zero value is empty and
// ready to use.
type MemoryClipboard struct {
	mu     sync.Mutex
	text   string
	copies int
}

// Copy replaces the stored text.
func (m *MemoryClipboard) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.copies++
	return nil
}

// Paste returns the stored text.
func (m *MemoryClipboard) Paste() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Copies returns how many times Copy was called.
func (m *MemoryClipboard) Copies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies
}
