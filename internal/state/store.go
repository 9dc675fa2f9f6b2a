// Package state caches lint results between runs in a SQLite database.
//
// A cached entry is keyed by file path and is only returned when both the
// content hash and the configuration fingerprint still match. Each CLI
// invocation is recorded as a run.
package state

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// RunStatus represents the status of a lint run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded lint invocation.
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	Version     string     `json:"version" yaml:"version"`
	Fingerprint string     `json:"fingerprint" yaml:"fingerprint"`
	Status      RunStatus  `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Files       int        `json:"files" yaml:"files"`
	Cached      int        `json:"cached" yaml:"cached"`
	Diagnostics int        `json:"diagnostics" yaml:"diagnostics"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunStats are the totals recorded when a run finishes.
type RunStats struct {
	Files       int
	Cached      int
	Diagnostics int
	Err         error
}

// Key identifies a cached lint result.
type Key struct {
	Path        string
	ContentHash string
	Fingerprint string
}

// NewKey builds the cache key of a file's content under a configuration
// fingerprint.
func NewKey(path string, content []byte, fingerprint string) Key {
	return Key{
		Path:        path,
		ContentHash: HashContent(content),
		Fingerprint: fingerprint,
	}
}

// HashContent returns the hex xxh3 digest of content.
func HashContent(content []byte) string {
	sum := xxh3.Hash128(content).Bytes()
	return hex.EncodeToString(sum[:])
}

// Fingerprint folds the parts that influence lint output into one digest.
func Fingerprint(parts ...string) string {
	sum := xxh3.HashString128(strings.Join(parts, "\x00")).Bytes()
	return hex.EncodeToString(sum[:])
}
