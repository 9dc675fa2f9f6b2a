package lsp

import (
	"maps"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/jqlint/pkg/token"
)

// Document is an immutable snapshot of an open editor buffer.
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []int // byte offset of each line start

	// byteColumns makes Position.Character a byte count; otherwise it
	// counts UTF-16 code units.
	byteColumns bool
}

func newDocument(uri, content string, version int) *Document {
	return &Document{URI: uri, Content: content, Version: version, Lines: computeLineOffsets(content)}
}

// Path is the file system path the document was opened from.
func (d *Document) Path() string {
	return URIToPath(d.URI)
}

// DocumentStore holds the buffers the client has open. Snapshots handed
// out by Get are never modified.
type DocumentStore struct {
	mu          sync.RWMutex
	docs        map[string]*Document
	byteColumns bool
}

// NewDocumentStore returns an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// SetEncoding selects the unit of Position.Character for documents
// opened from now on.
func (s *DocumentStore) SetEncoding(enc PositionEncodingKind) {
	s.mu.Lock()
	s.byteColumns = enc == PositionEncodingUTF8
	s.mu.Unlock()
}

func (s *DocumentStore) newDocument(uri, content string, version int) *Document {
	d := newDocument(uri, content, version)
	d.byteColumns = s.byteColumns
	return d
}

// Open starts tracking uri, replacing any earlier buffer.
func (s *DocumentStore) Open(uri, content string, version int) {
	s.mu.Lock()
	s.docs[uri] = s.newDocument(uri, content, version)
	s.mu.Unlock()
}

// Update replaces the text of an open buffer. Unknown URIs are ignored.
func (s *DocumentStore) Update(uri, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; ok {
		s.docs[uri] = s.newDocument(uri, content, version)
	}
}

// Close stops tracking uri.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get returns the current snapshot of uri, or nil.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// List returns the open URIs in sorted order.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.docs))
}

func computeLineOffsets(content string) []int {
	offsets := make([]int, 1, strings.Count(content, "\n")+1)
	for i, c := range []byte(content) {
		if c == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// PositionToOffset maps an LSP position to a byte offset. Characters past
// the end of a line map to the line end, lines past the end of the
// document to the document end.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}
	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}
	start, end := d.Lines[line], len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1
	}
	if d.byteColumns {
		return min(start+int(pos.Character), end)
	}

	off := start
	for units := int(pos.Character); units > 0 && off < end; {
		r, size := utf8.DecodeRuneInString(d.Content[off:end])
		units -= utf16.RuneLen(r)
		off += size
	}
	return off
}

// OffsetToPosition maps a byte offset to an LSP position. Out of range
// offsets are clamped.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}
	offset = max(0, min(offset, len(d.Content)))
	line := sort.SearchInts(d.Lines, offset+1) - 1
	col := offset - d.Lines[line]
	if !d.byteColumns {
		col = 0
		for _, r := range d.Content[d.Lines[line]:offset] {
			col += utf16.RuneLen(r)
		}
	}
	return Position{
		Line:      uint32(line), //nolint:gosec // G115: line index is non-negative
		Character: uint32(col),  //nolint:gosec // G115: column is non-negative
	}
}

// SpanToRange converts a source span to an LSP range. An invalid end
// collapses the range to its start.
func (d *Document) SpanToRange(start, end token.Position) Range {
	r := Range{Start: d.OffsetToPosition(start.Offset)}
	r.End = r.Start
	if end.IsValid() && end.Offset >= start.Offset {
		r.End = d.OffsetToPosition(end.Offset)
	}
	return r
}

// GetTextInRange returns the text r covers.
func (d *Document) GetTextInRange(r Range) string {
	start, end := d.PositionToOffset(r.Start), d.PositionToOffset(r.End)
	if start >= end {
		return ""
	}
	return d.Content[start:end]
}

// URIToPath converts a file URI to a path. Anything else is returned as is.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return u.Path
}

// PathToURI converts a path to a file URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
