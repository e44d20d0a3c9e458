package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionConstraintGrammar(t *testing.T) {
	cases := []struct {
		expr    string
		version string
		want    bool
	}{
		{"=1.2.0", "1.2.0", true},
		{"=1.2.0", "1.2.1", false},
		{"≥1.0.0", "1.5.0", true},
		{"≥1.0.0", "0.9.0", false},
		{"≤2.0.0", "1.5.0", true},
		{"≤2.0.0", "2.0.1", false},
		{"≥1.0.0 ∧ ≤2.0.0", "1.5.0", true},
		{"≥1.0.0 ∧ ≤2.0.0", "2.5.0", false},
		{">=1.0.0 && <=2.0.0", "1.5.0", true},
	}
	for _, c := range cases {
		vc, err := ParseVersionConstraint(c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, vc.Satisfies(c.version), "%s vs %s", c.expr, c.version)
	}
}

func TestResolveLoadOrderRespectsDependencies(t *testing.T) {
	// Scenario S6: plugin dependency resolution.
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "c", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "b", Constraint: mustConstraint(">=1.0.0")}}}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "b", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "a", Constraint: mustConstraint(">=1.0.0")}}}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0"}))

	order, err := g.ResolveLoadOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	unloadOrder, err := g.ResolveUnloadOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, unloadOrder)
}

func TestResolveLoadOrderDetectsCycle(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "b"}}}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "b", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "a"}}}))

	_, err := g.ResolveLoadOrder()
	assert.Error(t, err)
	assert.Error(t, g.Validate())
}

func TestValidateDetectsMissingDependency(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "ghost"}}}))
	assert.Error(t, g.Validate())
}

func TestValidateAllowsMissingOptionalDependency(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "ghost", Optional: true}}}))
	assert.NoError(t, g.Validate())
}

func TestValidateDetectsVersionMismatch(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "b", Constraint: mustConstraint("=2.0.0")}}}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "b", Version: "1.0.0"}))
	assert.Error(t, g.Validate())
}

func TestValidateDetectsPairwiseConflict(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0",
		Conflicts: []Conflict{{PluginID: "b", Reason: "incompatible tokenizer"}}}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "b", Version: "1.0.0"}))
	assert.Error(t, g.Validate())
}

func TestDependentsReturnsDirectDependents(t *testing.T) {
	g := NewDependencyGraph()
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "a", Version: "1.0.0"}))
	require.NoError(t, g.AddPlugin(DependencyManifest{PluginID: "b", Version: "1.0.0",
		Dependencies: []Dependency{{PluginID: "a"}}}))
	assert.Equal(t, []string{"b"}, g.Dependents("a"))
}

func mustConstraint(expr string) VersionConstraint {
	vc, err := ParseVersionConstraint(expr)
	if err != nil {
		panic(err)
	}
	return vc
}
