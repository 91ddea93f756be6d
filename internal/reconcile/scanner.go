package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Scanner walks a documentation root for completion artifacts. Grounded
// on the teacher's internal/supervisor/scanner.go directory-walk shape,
// narrowed to the single completion-doc convention this domain cares
// about instead of CLAUDE.md/workflow-YAML discovery.
type Scanner struct {
	docsRoot string
	log      zerolog.Logger

	mu        sync.Mutex
	priorRaw  map[string]string
}

// NewScanner builds a Scanner rooted at docsRoot.
func NewScanner(docsRoot string, log zerolog.Logger) *Scanner {
	return &Scanner{docsRoot: docsRoot, log: log, priorRaw: make(map[string]string)}
}

// Scan walks the documentation root and returns one CompletionDoc per
// file matching the naming convention. A file that fails to read or
// parse is logged and skipped; scanning never aborts on a single bad
// file, matching the watcher's per-file error isolation requirement.
func (s *Scanner) Scan() (ScanResult, error) {
	entries, err := os.ReadDir(s.docsRoot)
	if os.IsNotExist(err) {
		return ScanResult{}, nil
	}
	if err != nil {
		return ScanResult{}, fmt.Errorf("read docs root %s: %w", s.docsRoot, err)
	}

	var result ScanResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		doc, ok, err := s.scanFile(entry.Name())
		if err != nil {
			s.log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unparseable completion artifact")
			continue
		}
		if ok {
			result.Docs = append(result.Docs, doc)
		}
	}
	return result, nil
}

// ScanFile parses a single completion artifact by basename, for the
// watcher's single-document restricted apply path.
func (s *Scanner) ScanFile(name string) (CompletionDoc, bool, error) {
	return s.scanFile(name)
}

func (s *Scanner) scanFile(name string) (CompletionDoc, bool, error) {
	taskID, ok := taskIDFromFilename(name)
	if !ok {
		return CompletionDoc{}, false, nil
	}

	path := filepath.Join(s.docsRoot, name)
	info, err := os.Stat(path)
	if err != nil {
		return CompletionDoc{}, false, fmt.Errorf("stat %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return CompletionDoc{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	s.logRescanDiff(path, string(raw))

	fm, _ := parseFrontMatter(string(raw))

	doc := CompletionDoc{
		TaskID:      taskID,
		CompletedAt: info.ModTime(),
		Source:      SourceFile,
		Path:        path,
	}
	if fm.TaskID != nil {
		doc.TaskID = *fm.TaskID
	}
	if fm.AgentID != "" {
		doc.AgentID = fm.AgentID
	}
	if fm.CompletedAt != nil {
		doc.CompletedAt = *fm.CompletedAt
	}
	return doc, true, nil
}

// logRescanDiff records a character-level diff between a completion artifact's prior
// and current contents at Debug level when the watcher re-scans a file it
// has already ingested once (front matter edited after the first pass),
// then remembers the new contents for the next comparison.
func (s *Scanner) logRescanDiff(path, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, seen := s.priorRaw[path]
	s.priorRaw[path] = raw
	if !seen || prior == raw {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(prior, raw, false)
	s.log.Debug().Str("file", path).Str("diff", dmp.DiffPrettyText(diffs)).Msg("completion artifact changed since last scan")
}
