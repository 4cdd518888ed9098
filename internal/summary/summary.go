// Package summary writes the post-run structured report devsync leaves at
// the target root, additive over the Rust original (SPEC_FULL.md §3's
// RunSummary): total counters, per-category counts, and the skip/fail list
// with reasons. Grounded on the structured-state-file idiom in
// _examples/walteh-copyrc/pkg/state/state.go, using gopkg.in/yaml.v3 — a
// teacher dependency that otherwise had no home once the session file's
// format was fixed to spec.md's bespoke key=value grammar.
package summary

import (
	"os"
	"path/filepath"
	"sync"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/progress"
	"github.com/devsync/devsync/internal/syncopts"
)

// FileName is the summary file written at the target root.
const FileName = syncopts.SummaryFileName

// Entry records one failed or skipped path with its reason.
type Entry struct {
	Path     string `yaml:"path"`
	Category string `yaml:"category"`
	Reason   string `yaml:"reason"`
}

// Document is the full run summary, marshaled as-is.
type Document struct {
	Discovered int            `yaml:"discovered"`
	Done       int            `yaml:"done"`
	Skipped    int            `yaml:"skipped"`
	Failed     int            `yaml:"failed"`
	ByCategory map[string]int `yaml:"by_category"`
	ByGroup    map[string]int `yaml:"by_group"`
	Skips      []Entry        `yaml:"skips,omitempty"`
	Failures   []Entry        `yaml:"failures,omitempty"`
}

// Collector is a progress.Sink that builds a Document as events arrive,
// in addition to whatever other sinks the run is using — the orchestrator
// registers it alongside the log and UI sinks.
type Collector struct {
	mu sync.Mutex

	byCategory map[category.Tag]int
	byGroup    map[category.Group]int
	started    map[string]category.Tag
	skips      []Entry
	failures   []Entry
}

// NewCollector builds an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		byCategory: make(map[category.Tag]int),
		byGroup:    make(map[category.Group]int),
		started:    make(map[string]category.Tag),
	}
}

func (c *Collector) Discovered(path string) {}

func (c *Collector) Started(path string, tag category.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started[path] = tag
	c.byCategory[tag]++
	c.byGroup[tag.Group()]++
}

func (c *Collector) Finished(path string, outcome progress.Outcome, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat := "unknown"
	if tag, started := c.started[path]; started {
		cat = tag.String()
	}
	switch outcome {
	case progress.OutcomeSkipped:
		c.skips = append(c.skips, Entry{Path: path, Category: cat, Reason: reason})
	case progress.OutcomeFailed:
		c.failures = append(c.failures, Entry{Path: path, Category: cat, Reason: reason})
	}
}

func (c *Collector) Logged(level progress.LogLevel, message string) {}

// Build folds the final counters snapshot into a Document, alongside the
// per-category and skip/fail detail accumulated from events.
func (c *Collector) Build(counts progress.Counts) Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	byCategory := make(map[string]int, len(c.byCategory))
	for tag, n := range c.byCategory {
		byCategory[tag.String()] = n
	}
	byGroup := make(map[string]int, len(c.byGroup))
	for group, n := range c.byGroup {
		byGroup[group.String()] = n
	}

	return Document{
		Discovered: counts.Discovered,
		Done:       counts.Done,
		Skipped:    counts.Skipped,
		Failed:     counts.Failed,
		ByCategory: byCategory,
		ByGroup:    byGroup,
		Skips:      append([]Entry(nil), c.skips...),
		Failures:   append([]Entry(nil), c.failures...),
	}
}

// Write marshals doc to dir/.devsync.summary.yaml.
func Write(dir string, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Errorf("marshaling run summary: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing run summary %s: %w", path, err)
	}
	return nil
}
