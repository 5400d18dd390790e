// Package assets resolves the relative file paths the content API returns.
package assets

import "strings"

// Resolver prefixes stored paths with the API base.
type Resolver struct {
	Base string
}

func NewResolver(base string) Resolver {
	return Resolver{Base: strings.TrimRight(base, "/")}
}

// Resolve prefixes path with the base. Structured image fields are always
// stored relative, so no absolute-URL check is made. Empty stays empty.
func (r Resolver) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.Base + path
}

// ResolveAll resolves every path, dropping blanks.
func (r Resolver) ResolveAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if u := r.Resolve(p); u != "" {
			out = append(out, u)
		}
	}
	return out
}
