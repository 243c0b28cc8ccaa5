package model

import "time"

// Source tags identify which scan root a file was discovered under.
const (
	SourceDesktop       = "desktop"
	SourceSharedDesktop = "shared-desktop"
	SourceOrganized     = "organized"
)

// Operation kinds.
const (
	KindOrganize = "organize"
	KindRestore  = "restore"
)

// Transfer modes.
const (
	ModeMove = "move"
	ModeCopy = "copy"
)

// FileDescriptor is one filesystem entry discovered by a scan.
// Descriptors are created fresh on every scan and passed by value; nothing mutates them.
type FileDescriptor struct {
	ID          string    `json:"id" yaml:"id"`               // base64 of Path
	Name        string    `json:"name" yaml:"name"`           // base name including extension
	Path        string    `json:"path" yaml:"path"`           // absolute path
	Extension   string    `json:"extension" yaml:"extension"` // lowercase, no leading dot
	Size        int64     `json:"size" yaml:"size"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt" yaml:"modifiedAt"`
	IsShortcut  bool      `json:"isShortcut" yaml:"isShortcut"`
	Source      string    `json:"source" yaml:"source"` // one of the Source* constants
	Folder      string    `json:"folder" yaml:"folder"` // display name of the containing folder
	IsOrganized bool      `json:"isOrganized" yaml:"isOrganized"`
}

// FileStat is the detailed stat record for a single path.
type FileStat struct {
	Name        string    `json:"name" yaml:"name"`
	Path        string    `json:"path" yaml:"path"`
	Extension   string    `json:"extension" yaml:"extension"`
	Size        int64     `json:"size" yaml:"size"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt" yaml:"modifiedAt"`
	AccessedAt  time.Time `json:"accessedAt" yaml:"accessedAt"`
	IsFile      bool      `json:"isFile" yaml:"isFile"`
	IsDirectory bool      `json:"isDirectory" yaml:"isDirectory"`
	IsShortcut  bool      `json:"isShortcut" yaml:"isShortcut"`
}

// Category is an entry of the fixed category taxonomy.
type Category struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Icon       string   `json:"icon" yaml:"icon"`
	Color      string   `json:"color" yaml:"color"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Transfer records one file's move or copy within an Operation.
type Transfer struct {
	Source      string    `json:"sourcePath" yaml:"sourcePath"`
	Destination string    `json:"destPath" yaml:"destPath"` // path actually used after collision resolution
	FileName    string    `json:"fileName" yaml:"fileName"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Operation is one completed organize or restore batch.
// Transfers are stored in execution order.
type Operation struct {
	ID        string     `json:"id" yaml:"id"`
	Kind      string     `json:"type" yaml:"type"` // KindOrganize or KindRestore
	Mode      string     `json:"mode" yaml:"mode"` // ModeMove or ModeCopy
	Transfers []Transfer `json:"operations" yaml:"operations"`
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
	Summary   string     `json:"summary" yaml:"summary"`
}

// Reversible reports whether undoing this operation moves files back.
// Copies are never reversed.
func (op *Operation) Reversible() bool {
	return op.Kind == KindRestore || op.Mode == ModeMove
}

// Failure is a per-file error collected during a batch.
type Failure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Moved describes one successful transfer in a batch result.
type Moved struct {
	File     string `json:"file" yaml:"file"`
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// OrganizeResult is the aggregate outcome of an organize batch.
type OrganizeResult struct {
	Success     []Moved   `json:"success" yaml:"success"`
	Failed      []Failure `json:"failed" yaml:"failed"`
	TotalMoved  int       `json:"totalMoved" yaml:"totalMoved"`
	TotalSize   int64     `json:"totalSize" yaml:"totalSize"`
	OperationID string    `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Warnings    []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RestoreResult is the aggregate outcome of a restore batch.
type RestoreResult struct {
	Success       []Moved   `json:"success" yaml:"success"`
	Failed        []Failure `json:"failed" yaml:"failed"`
	TotalRestored int       `json:"totalRestored" yaml:"totalRestored"`
	OperationID   string    `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Warnings      []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// UndoResult lists the file names moved back and the transfers that failed.
type UndoResult struct {
	Success []string  `json:"success" yaml:"success"`
	Failed  []Failure `json:"failed" yaml:"failed"`
}

// HistoryStats summarizes the operation log.
type HistoryStats struct {
	TotalOperations int        `json:"totalOperations" yaml:"totalOperations"`
	TotalFilesMoved int        `json:"totalFilesMoved" yaml:"totalFilesMoved"`
	OldestEntry     *time.Time `json:"oldestEntry" yaml:"oldestEntry"`
	NewestEntry     *time.Time `json:"newestEntry" yaml:"newestEntry"`
}
