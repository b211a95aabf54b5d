package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoneWith(name string, props map[string][]string) RuleGroup {
	g := RuleGroup{Name: name, Status: StatusActive}
	for _, key := range []string{"target", "services", "ports", "sources"} {
		if vals, ok := props[key]; ok {
			addZoneProperty(&g, key, vals)
		}
	}
	return g
}

func elements(t *testing.T, cfg *ParsedConfiguration, zone, prop string) []ZoneElement {
	t.Helper()
	for _, g := range cfg.Groups {
		if g.Name != zone {
			continue
		}
		for _, p := range g.Properties {
			if p.Name == prop {
				return p.Elements
			}
		}
	}
	t.Fatalf("no property %s in zone %s", prop, zone)
	return nil
}

func TestDiffMarksMissingElementsTemporary(t *testing.T) {
	runtime := &ParsedConfiguration{
		Backend:   BackendFirewalld,
		Available: true,
		Groups: []RuleGroup{
			zoneWith("public", map[string][]string{"ports": {"80/tcp", "443/tcp"}}),
		},
	}
	permanent := &ParsedConfiguration{
		Backend: BackendFirewalld,
		Groups: []RuleGroup{
			zoneWith("public", map[string][]string{"ports": {"443/tcp"}}),
		},
	}

	out := Diff(runtime, permanent)

	ports := elements(t, out, "public", "ports")
	require.Len(t, ports, 2)
	assert.Equal(t, ZoneElement{Value: "80/tcp", Temporary: true}, ports[0])
	assert.Equal(t, ZoneElement{Value: "443/tcp", Temporary: false}, ports[1])
}

func TestDiffRuntimeOnlyZoneFullyTemporary(t *testing.T) {
	runtime := &ParsedConfiguration{
		Backend:   BackendFirewalld,
		Available: true,
		Groups: []RuleGroup{
			zoneWith("dmz", map[string][]string{
				"services": {"http", "https"},
				"sources":  {"10.0.0.0/8"},
			}),
		},
	}
	permanent := &ParsedConfiguration{Backend: BackendFirewalld}

	out := Diff(runtime, permanent)

	for _, prop := range []string{"services", "sources"} {
		for _, e := range elements(t, out, "dmz", prop) {
			assert.True(t, e.Temporary, "%s %s should be temporary", prop, e.Value)
		}
	}
}

func TestDiffPermanentOnlyPropertyLine(t *testing.T) {
	// Runtime has a ports line, the permanent listing has none at
	// all for the same zone: the runtime port is temporary.
	p := firewalldParser{}
	runtime := p.Parse("public (active)\n  ports: 8080/tcp\n")
	permanent := p.Parse("public (active)\n  services: ssh\n")

	out := Diff(runtime, permanent)

	ports := elements(t, out, "public", "ports")
	require.Len(t, ports, 1)
	assert.Equal(t, "8080/tcp", ports[0].Value)
	assert.True(t, ports[0].Temporary)
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	p := firewalldParser{}
	runtime := p.Parse(firewalldListing)
	permanent := p.Parse("public (active)\n  ports: 80/tcp\n")

	runtimeBefore := p.Parse(firewalldListing)
	permanentBefore := p.Parse("public (active)\n  ports: 80/tcp\n")

	_ = Diff(runtime, permanent)

	assert.Equal(t, runtimeBefore, runtime)
	assert.Equal(t, permanentBefore, permanent)
}

func TestDiffRecomputedFreshEachCall(t *testing.T) {
	p := firewalldParser{}
	runtime := p.Parse("public (active)\n  ports: 80/tcp\n")

	permWith := p.Parse("public (active)\n  ports: 80/tcp\n")
	permWithout := p.Parse("public (active)\n  ports:\n")

	first := Diff(runtime, permWith)
	assert.False(t, elements(t, first, "public", "ports")[0].Temporary)

	second := Diff(runtime, permWithout)
	assert.True(t, elements(t, second, "public", "ports")[0].Temporary)
}
