// Package search provides an in-memory prefix index over file names.
//
// Each trie node keeps every file whose lowercased name passes through it, so
// a prefix lookup costs O(len(query)) at the price of O(len(name)) entries per
// file. That trade-off suits desktop-sized file sets. The index is derived
// state: it is rebuilt wholesale from each full scan and never persisted.
package search

import (
	"sort"
	"strings"
	"sync"

	"desksort/internal/model"
)

// DefaultLimit caps results when a caller passes a non-positive limit.
const DefaultLimit = 50

type node struct {
	children map[rune]*node
	files    []model.FileDescriptor
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Stats reports index size.
type Stats struct {
	TotalFiles  int `json:"totalFiles" yaml:"totalFiles"`
	UniquePaths int `json:"uniquePaths" yaml:"uniquePaths"`
}

// Index is a trie keyed by lowercased file name.
// It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	root   *node
	byPath map[string]model.FileDescriptor
	total  int
}

// New creates an empty index.
func New() *Index {
	return &Index{
		root:   newNode(),
		byPath: make(map[string]model.FileDescriptor),
	}
}

// Insert adds a file under every prefix of its name, replacing any file
// already indexed at the same path. Files without a name are ignored.
func (idx *Index) Insert(file model.FileDescriptor) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.insert(file)
}

func (idx *Index) insert(file model.FileDescriptor) {
	if file.Name == "" {
		return
	}
	if _, ok := idx.byPath[file.Path]; ok {
		idx.remove(file.Path)
	}

	n := idx.root
	for _, r := range strings.ToLower(file.Name) {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
		n.files = append(n.files, file)
	}

	idx.byPath[file.Path] = file
	idx.total++
}

// Remove drops the file with the given path. Unknown paths are a no-op.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.remove(path)
}

func (idx *Index) remove(path string) {
	file, ok := idx.byPath[path]
	if !ok {
		return
	}

	n := idx.root
	for _, r := range strings.ToLower(file.Name) {
		child, ok := n.children[r]
		if !ok {
			// Partially indexed; nothing further down to clean.
			break
		}
		n = child
		kept := n.files[:0]
		for _, f := range n.files {
			if f.Path != path {
				kept = append(kept, f)
			}
		}
		n.files = kept
	}

	delete(idx.byPath, path)
	idx.total--
}

// Search returns files whose names start with query, case-insensitively.
// Exact name matches rank first, then shorter names. Ordering is stable.
func (idx *Index) Search(query string, limit int) []model.FileDescriptor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.FileDescriptor{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	idx.mu.RLock()
	n := idx.root
	for _, r := range q {
		child, ok := n.children[r]
		if !ok {
			idx.mu.RUnlock()
			return []model.FileDescriptor{}
		}
		n = child
	}
	results := make([]model.FileDescriptor, len(n.files))
	copy(results, n.files)
	idx.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		a := strings.ToLower(results[i].Name)
		b := strings.ToLower(results[j].Name)
		if (a == q) != (b == q) {
			return a == q
		}
		return len(a) < len(b)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Rebuild discards all state and indexes files from scratch.
func (idx *Index) Rebuild(files []model.FileDescriptor) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.root = newNode()
	idx.byPath = make(map[string]model.FileDescriptor, len(files))
	idx.total = 0
	for _, f := range files {
		idx.insert(f)
	}
}

// GetByPath returns the indexed file with the exact path.
func (idx *Index) GetByPath(path string) (model.FileDescriptor, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	f, ok := idx.byPath[path]
	return f, ok
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.total
}

// Stats returns the current index size.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{TotalFiles: idx.total, UniquePaths: len(idx.byPath)}
}
