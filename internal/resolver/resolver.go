// Package resolver discovers the transitive set of VHDL source files a
// design depends on. A component declared in one file is expected by
// convention to live in a sibling file of the same name, so discovery
// follows declarations from file to file until no new files appear.
package resolver

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/robert-at-pretension-io/vhdl-build/internal/parser"
)

// SourceExt is the extension component files are expected to carry.
const SourceExt = ".vhd"

// Resolver expands a root source file into its full dependency set.
type Resolver struct {
	parser *parser.Parser
	ext    string
}

// New creates a Resolver backed by the given parser.
func New(p *parser.Parser) *Resolver {
	return &Resolver{parser: p, ext: SourceExt}
}

// Resolve returns every source file reachable from root by following
// component declarations to existing sibling files. The traversal uses
// an explicit worklist with a visited map, so cyclic references and
// self-references terminate. A file that cannot be read or parsed
// contributes no dependencies; discovery continues for the rest of the
// tree. The returned set is unordered.
func (r *Resolver) Resolve(root string) map[string]struct{} {
	visited := make(map[string][]string)
	pending := []string{root}

	for len(pending) > 0 {
		path := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, done := visited[path]; done {
			continue
		}

		names, err := r.parser.Components(path)
		if err != nil {
			visited[path] = nil
			continue
		}

		dir := filepath.Dir(path)
		var direct []string
		for _, name := range names {
			candidate := filepath.Join(dir, name+r.ext)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			direct = append(direct, candidate)
			pending = append(pending, candidate)
		}
		visited[path] = direct
	}

	set := make(map[string]struct{}, len(visited))
	for path, deps := range visited {
		set[path] = struct{}{}
		for _, dep := range deps {
			set[dep] = struct{}{}
		}
	}
	return set
}

// ResolveAll resolves every root and merges the results.
func (r *Resolver) ResolveAll(roots []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, root := range roots {
		for path := range r.Resolve(root) {
			set[path] = struct{}{}
		}
	}
	return set
}

// Sorted flattens a dependency set into a sorted slice.
func Sorted(set map[string]struct{}) []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
