// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns assistant responses into file writes.
// pipeline.go runs detect, resolve, and write for one assistant turn.
package extract

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline runs the full extraction for one completed assistant response.
// It is single-threaded and runs once per response, after streaming has
// finished; it never overlaps with itself, so no locking is needed beyond
// the filesystem's own.
type Pipeline struct {
	resolver *Resolver
	writer   *Writer
}

// New builds a pipeline rooted at the given project directory. It returns
// ErrNoProjectRoot when the root is empty: the pipeline refuses to guess a
// target directory.
func New(projectRoot string) (*Pipeline, error) {
	resolver, err := NewResolver(projectRoot)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		resolver: resolver,
		writer:   NewWriter(),
	}, nil
}

// Root returns the project root the pipeline writes under.
func (p *Pipeline) Root() string {
	return p.resolver.Root()
}

// Plan detects and resolves without writing anything. Useful for dry runs
// and previews; the returned slots are in detection order with duplicate
// targets already collapsed last-wins.
func (p *Pipeline) Plan(text string) []Planned {
	return p.resolver.ResolveBatch(Detect(text))
}

// Run executes the whole pipeline for one response and returns the ordered
// batch report. Per-target outcomes come back as data; the only hard error
// is the missing-project-root precondition, which New already guards, so
// Run itself always returns a report.
func (p *Pipeline) Run(text string) []WriteResult {
	return p.writer.Apply(p.Plan(text))
}

// Summary condenses a batch report into counts for quick rendering.
type Summary struct {
	Written  int
	Rejected int
	Failed   int
}

// Summarize tallies the terminal outcomes of a report.
func Summarize(results []WriteResult) Summary {
	var s Summary
	for _, res := range results {
		switch res.Outcome {
		case OutcomeWritten:
			s.Written++
		case OutcomeRejectedUnsafe:
			s.Rejected++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}
