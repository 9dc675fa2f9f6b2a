// Package starlark loads user rule definitions written in Starlark.
//
// A rule file calls one of the factory builtins, e.g.
//
//	collection_method_rule("no-toggle", ["toggle"], "Prefer `classList.toggle`")
//
// and the loader collects every rule built that way.
package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
)

// ToStrings accepts None, a single string, or any indexable of strings
// and returns the names as a slice.
func ToStrings(v starlark.Value) ([]string, error) {
	if _, ok := v.(starlark.NoneType); ok {
		return nil, nil
	}
	if s, ok := starlark.AsString(v); ok {
		return []string{s}, nil
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("want string or list of strings, got %s", v.Type())
	}
	names := make([]string, 0, seq.Len())
	for i := range seq.Len() {
		s, ok := starlark.AsString(seq.Index(i))
		if !ok {
			return nil, fmt.Errorf("index %d: want string, got %s", i, seq.Index(i).Type())
		}
		names = append(names, s)
	}
	return names, nil
}
