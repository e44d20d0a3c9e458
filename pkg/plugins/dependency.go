package plugins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// VersionConstraint is a parsed dependency version requirement using
// the grammar "=X" | "≥X" | "≤X" | "≥X ∧ ≤Y".
// ASCII spellings ">=", "<=", "&&"/"and" are accepted as well, since a
// manifest author typing on a US keyboard will reach for those first.
type VersionConstraint struct {
	Exact string
	Min   string
	Max   string
}

// ParseVersionConstraint parses one constraint expression.
func ParseVersionConstraint(expr string) (VersionConstraint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return VersionConstraint{}, nil
	}
	if strings.HasPrefix(expr, "=") {
		return VersionConstraint{Exact: strings.TrimSpace(expr[1:])}, nil
	}

	parts := splitConjunction(expr)
	var vc VersionConstraint
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case strings.HasPrefix(p, "≥"), strings.HasPrefix(p, ">="):
			vc.Min = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(p, "≥"), ">="))
		case strings.HasPrefix(p, "≤"), strings.HasPrefix(p, "<="):
			vc.Max = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(p, "≤"), "<="))
		default:
			return VersionConstraint{}, mofaerr.New(mofaerr.ValidationFailed,
				fmt.Sprintf("unrecognized version constraint clause %q in %q", p, expr))
		}
	}
	return vc, nil
}

func splitConjunction(expr string) []string {
	for _, sep := range []string{"∧", "&&", " and "} {
		if strings.Contains(expr, sep) {
			return strings.Split(expr, sep)
		}
	}
	return []string{expr}
}

// Satisfies reports whether version meets the constraint. Versions are
// compared as dot-separated numeric segments; a non-numeric segment
// falls back to lexicographic comparison of the whole string.
func (vc VersionConstraint) Satisfies(version string) bool {
	if vc.Exact != "" {
		return version == vc.Exact
	}
	if vc.Min != "" && compareVersions(version, vc.Min) < 0 {
		return false
	}
	if vc.Max != "" && compareVersions(version, vc.Max) > 0 {
		return false
	}
	return true
}

func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var an, bn int
		var aok, bok bool
		if i < len(as) {
			an, aok = atoiOK(as[i])
		}
		if i < len(bs) {
			bn, bok = atoiOK(bs[i])
		}
		if !aok || !bok {
			return strings.Compare(a, b)
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}

func atoiOK(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Dependency names a required plugin and the version it must satisfy.
type Dependency struct {
	PluginID   string
	Constraint VersionConstraint
	Optional   bool
}

// Conflict names a plugin that cannot be loaded alongside this one.
type Conflict struct {
	PluginID string
	Reason   string
}

// DependencyManifest is the subset of PluginManifest the dependency
// graph reasons about, keyed by plugin ID rather than by executable
// path.
type DependencyManifest struct {
	PluginID     string
	Version      string
	Dependencies []Dependency
	Conflicts    []Conflict
}

// DependencyGraph resolves plugin load order, grounded on
// original_source/crates/mofa-foundation/src/plugin/dependency.rs
// (Kahn's-algorithm topological sort, cycle detection via DFS
// recursion-stack tracking, pairwise conflict/version validation).
type DependencyGraph struct {
	nodes map[string]DependencyManifest
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string]DependencyManifest)}
}

// AddPlugin registers a manifest. Re-adding the same plugin ID errors.
func (g *DependencyGraph) AddPlugin(m DependencyManifest) error {
	if _, exists := g.nodes[m.PluginID]; exists {
		return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("duplicate plugin %q", m.PluginID))
	}
	g.nodes[m.PluginID] = m
	return nil
}

// Validate checks for cycles, missing dependencies, version mismatches,
// and conflicts, in that order — mirroring the Rust graph's validate().
func (g *DependencyGraph) Validate() error {
	if err := g.detectCycles(); err != nil {
		return err
	}
	ids := g.sortedIDs()
	for _, id := range ids {
		node := g.nodes[id]
		for _, dep := range node.Dependencies {
			depNode, ok := g.nodes[dep.PluginID]
			if !ok {
				if dep.Optional {
					continue
				}
				return mofaerr.New(mofaerr.ValidationFailed,
					fmt.Sprintf("plugin %q requires missing dependency %q", id, dep.PluginID))
			}
			if !dep.Constraint.Satisfies(depNode.Version) {
				return mofaerr.New(mofaerr.ValidationFailed,
					fmt.Sprintf("plugin %q requires %q at a version incompatible with found %q", id, dep.PluginID, depNode.Version))
			}
		}
		for _, c := range node.Conflicts {
			if _, ok := g.nodes[c.PluginID]; ok {
				return mofaerr.New(mofaerr.ValidationFailed,
					fmt.Sprintf("plugin %q conflicts with loaded plugin %q: %s", id, c.PluginID, c.Reason))
			}
		}
	}
	return nil
}

// ResolveLoadOrder returns plugin IDs in dependency order (every
// dependency before its dependent) via Kahn's algorithm. Ties among
// plugins with equal in-degree break by plugin ID for determinism —
// the original's VecDeque iteration order depends on HashMap
// enumeration, which Go deliberately randomizes, so MoFA sorts instead.
func (g *DependencyGraph) ResolveLoadOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string)
	for id, node := range g.nodes {
		count := 0
		for _, dep := range node.Dependencies {
			if _, ok := g.nodes[dep.PluginID]; !ok {
				if dep.Optional {
					continue
				}
				return nil, mofaerr.New(mofaerr.ValidationFailed,
					fmt.Sprintf("plugin %q requires missing dependency %q", id, dep.PluginID))
			}
			count++
			dependents[dep.PluginID] = append(dependents[dep.PluginID], id)
		}
		inDegree[id] = count
	}

	var ready []string
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := append([]string{}, dependents[id]...)
		sort.Strings(next)
		for _, other := range next {
			inDegree[other]--
			if inDegree[other] == 0 {
				ready = insertSorted(ready, other)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, mofaerr.New(mofaerr.ValidationFailed, "circular plugin dependency detected")
	}
	return order, nil
}

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// ResolveUnloadOrder is the inverse of ResolveLoadOrder: dependents
// before their dependencies, safe for tearing down a plugin set.
func (g *DependencyGraph) ResolveUnloadOrder() ([]string, error) {
	order, err := g.ResolveLoadOrder()
	if err != nil {
		return nil, err
	}
	reversed := make([]string, len(order))
	for i, id := range order {
		reversed[len(order)-1-i] = id
	}
	return reversed, nil
}

func (g *DependencyGraph) detectCycles() error {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var visit func(id string) error
	visit = func(id string) error {
		visited[id] = true
		onStack[id] = true
		node := g.nodes[id]
		deps := append([]Dependency{}, node.Dependencies...)
		sort.Slice(deps, func(i, j int) bool { return deps[i].PluginID < deps[j].PluginID })
		for _, dep := range deps {
			if _, ok := g.nodes[dep.PluginID]; !ok {
				continue
			}
			if !visited[dep.PluginID] {
				if err := visit(dep.PluginID); err != nil {
					return err
				}
			} else if onStack[dep.PluginID] {
				return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("circular plugin dependency involving %q", dep.PluginID))
			}
		}
		onStack[id] = false
		return nil
	}
	for _, id := range g.sortedIDs() {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *DependencyGraph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dependents returns the plugin IDs that directly depend on pluginID.
func (g *DependencyGraph) Dependents(pluginID string) []string {
	var out []string
	for _, id := range g.sortedIDs() {
		for _, dep := range g.nodes[id].Dependencies {
			if dep.PluginID == pluginID {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
