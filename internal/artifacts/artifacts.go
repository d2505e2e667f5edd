// Package artifacts saves per-product page snapshots so an operator can
// inspect what the checker actually saw, which is the only way to diagnose
// BLOCKED and UNKNOWN results after the fact.
package artifacts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// textCap limits how much extracted text is written per product.
const textCap = 10000

// Store writes and rotates diagnostic page snapshots under a single
// directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: slog.Default().With("component", "artifacts"),
	}
}

// Clean removes snapshots from previous runs and ensures the directory
// exists. Removal failures are logged and skipped; a stale snapshot is
// better than a failed run.
func (s *Store) Clean() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts dir %s: %w", s.dir, err)
	}

	for _, pattern := range []string{"brickwatch_*.html", "brickwatch_*.txt"} {
		matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				s.logger.Warn("failed to remove stale artifact", "path", m, "error", err)
			}
		}
	}

	return nil
}

// Save writes the raw HTML and the extracted text for one product. The text
// file leads with the page title so the operator sees at a glance what page
// was served.
func (s *Store) Save(productName, title, html, text string) error {
	if len(text) > textCap {
		text = text[:textCap]
	}

	htmlPath := filepath.Join(s.dir, fmt.Sprintf("brickwatch_%s.html", productName))
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}

	txtPath := filepath.Join(s.dir, fmt.Sprintf("brickwatch_%s.txt", productName))
	body := fmt.Sprintf("Title: %s\n\n%s", title, text)
	if err := os.WriteFile(txtPath, []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", txtPath, err)
	}

	return nil
}
