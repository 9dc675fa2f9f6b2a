package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies a source grammar.
type Language string

// Supported grammars.
const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

var extensions = map[string]Language{
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// LanguageForPath returns the grammar used for a file based on its extension.
func LanguageForPath(path string) (Language, bool) {
	l, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return l, ok
}

// IsSupported reports whether path has an extension jqlint can parse.
func IsSupported(path string) bool {
	_, ok := LanguageForPath(path)
	return ok
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	return out
}
