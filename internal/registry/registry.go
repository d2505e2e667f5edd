// Package registry loads the ordered list of product pages to watch.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Target is one product page to check. Position is the 1-based line number
// in the source file and is used only for reporting and ordering.
type Target struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// ProductName derives a short label from the last path segment of the URL,
// used for console output and artifact file names.
func (t Target) ProductName() string {
	trimmed := strings.TrimRight(t.URL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx < len(trimmed)-1 {
		return trimmed[idx+1:]
	}
	if trimmed == "" {
		return t.URL
	}
	return trimmed
}

// Load reads targets from a line-oriented file: one URL per line, blank
// lines and lines starting with '#' skipped. A missing file yields an empty
// list, matching a freshly deployed watcher with no URLs configured yet.
func Load(path string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open target list %s: %w", path, err)
	}
	defer f.Close()

	targets, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read target list %s: %w", path, err)
	}
	return targets, nil
}

// Parse reads targets from r. Line numbers count every line of the source,
// including skipped ones, so positions stay stable when comments are added.
func Parse(r io.Reader) ([]Target, error) {
	var targets []Target

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, Target{URL: line, Position: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan target list: %w", err)
	}

	return targets, nil
}
