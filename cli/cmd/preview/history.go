package preview

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "preview.utf8"

// maxHistory bounds the number of remembered filters.
const maxHistory = 100

// History remembers widget filters across sessions, oldest first.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory returns a History persisted at path. An empty path keeps
// entries in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads entries from the history file. A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}

	return scanner.Err()
}

// Add records entry as the newest, moving an earlier copy forward.
func (h *History) Add(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	h.entries = slices.DeleteFunc(h.entries, func(s string) bool { return s == entry })
	h.entries = append(h.entries, entry)

	if len(h.entries) > maxHistory {
		h.entries = slices.Clone(h.entries[len(h.entries)-maxHistory:])
	}

	return h.rewriteFile()
}

// Get returns the entry at i, where 0 is the oldest.
func (h *History) Get(i int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", false
	}

	return h.entries[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile must be called with h.mu held.
func (h *History) rewriteFile() error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		_, _ = w.WriteString(entry)
		_ = w.WriteByte('\n')
	}

	return w.Flush()
}
