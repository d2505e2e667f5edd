// Package ledger remembers the last notified state per target so repeated
// runs do not re-send the same alert. This is what makes notification
// idempotent across runs: an alert fires only on a state transition.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jdhwiz/brickwatch/internal/stock"
)

// Entry records the most recent alert sent for one URL.
type Entry struct {
	URL        string      `json:"url"`
	State      stock.State `json:"state"`
	NotifiedAt time.Time   `json:"notified_at"`
}

// Ledger is a small JSON-file store keyed by URL. It is the only state the
// watcher keeps between runs.
type Ledger struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	filename string
}

// Open loads the ledger from filename, starting empty when the file does
// not exist yet.
func Open(filename string) (*Ledger, error) {
	l := &Ledger{
		entries:  make(map[string]*Entry),
		filename: filename,
	}

	if err := l.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return l, nil
}

// ShouldNotify reports whether an alert for this URL/state pair is new
// information. A state identical to the last notified one is suppressed.
func (l *Ledger) ShouldNotify(url string, state stock.State) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[url]
	if !ok {
		return true
	}
	return entry.State != state
}

// MarkNotified records a successfully delivered alert and persists the
// ledger.
func (l *Ledger) MarkNotified(url string, state stock.State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[url] = &Entry{
		URL:        url,
		State:      state,
		NotifiedAt: time.Now().UTC(),
	}

	return l.save()
}

// Last returns the recorded entry for a URL, if any.
func (l *Ledger) Last(url string) (*Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[url]
	return entry, ok
}

func (l *Ledger) load() error {
	data, err := os.ReadFile(l.filename)
	if err != nil {
		return err
	}

	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse ledger %s: %w", l.filename, err)
	}

	l.entries = entries
	if l.entries == nil {
		l.entries = make(map[string]*Entry)
	}
	return nil
}

func (l *Ledger) save() error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmp := l.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.filename); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	return nil
}
