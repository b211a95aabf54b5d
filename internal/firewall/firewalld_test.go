package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firewalldListing = `public (active)
  target: default
  icmp-block-inversion: no
  interfaces: eth0 eth1
  sources:
  services: ssh dhcpv6-client
  ports: 80/tcp 443/tcp
  protocols:
  masquerade: no
  forward-ports:
  source-ports:
  icmp-blocks:
  rich rules:
	rule family="ipv4" source address="192.0.2.0/24" accept
	rule family="ipv4" source address="198.51.100.7" drop

trusted
  target: ACCEPT
  interfaces:
  sources:
  services:
  ports:
  protocols:
  masquerade: no
  forward-ports:
  source-ports:
  icmp-blocks:
  rich rules:
`

func TestParseFirewalldZones(t *testing.T) {
	p := firewalldParser{}
	cfg := p.Parse(firewalldListing)

	require.Len(t, cfg.Groups, 2)

	public := cfg.Groups[0]
	assert.Equal(t, "public", public.Name)
	assert.Equal(t, StatusActive, public.Status)

	trusted := cfg.Groups[1]
	assert.Equal(t, "trusted", trusted.Name)
	assert.Equal(t, StatusInactive, trusted.Status)

	props := map[string][]string{}
	for _, p := range public.Properties {
		var vals []string
		for _, e := range p.Elements {
			vals = append(vals, e.Value)
		}
		props[p.Name] = vals
	}

	assert.Equal(t, []string{"default"}, props["target"])
	assert.Equal(t, []string{"eth0", "eth1"}, props["interfaces"])
	assert.Equal(t, []string{"ssh", "dhcpv6-client"}, props["services"])
	assert.Equal(t, []string{"80/tcp", "443/tcp"}, props["ports"])
	assert.Equal(t, []string{"no"}, props["masquerade"])

	// Rich rule continuation lines are consumed while indented.
	require.Len(t, props["rich rules"], 2)
	assert.Contains(t, props["rich rules"][0], "192.0.2.0/24")

	// Empty values yield empty collections, never a collection
	// holding an empty string.
	assert.Empty(t, props["sources"])
	assert.Empty(t, props["protocols"])

	// target(1) + interfaces(2) + services(2) + ports(2) +
	// masquerade(1) + rich rules(2)
	assert.Equal(t, 10, public.Count)
	assert.Equal(t, 10+2, cfg.Total) // trusted: target + masquerade
}

func TestParseFirewalldStatusAnnotation(t *testing.T) {
	p := firewalldParser{}

	tests := []struct {
		header string
		name   string
		status string
	}{
		{"public (active)", "public", StatusActive},
		{"public (default, active)", "public", StatusActive},
		{"public (ACTIVE)", "public", StatusActive},
		{"public (default)", "public", StatusInactive},
		{"public", "public", StatusInactive},
	}
	for _, tt := range tests {
		cfg := p.Parse(tt.header + "\n  target: default\n")
		require.Len(t, cfg.Groups, 1, tt.header)
		assert.Equal(t, tt.name, cfg.Groups[0].Name, tt.header)
		assert.Equal(t, tt.status, cfg.Groups[0].Status, tt.header)
	}
}

func TestParseFirewalldUnknownKeysIgnored(t *testing.T) {
	raw := `public (active)
  target: default
  icmp-block-inversion: no
  forward: yes
  ports: 8080/tcp
`
	p := firewalldParser{}
	cfg := p.Parse(raw)

	require.Len(t, cfg.Groups, 1)
	require.Len(t, cfg.Groups[0].Properties, 2)
	assert.Equal(t, "target", cfg.Groups[0].Properties[0].Name)
	assert.Equal(t, "ports", cfg.Groups[0].Properties[1].Name)
}

func TestParseFirewalldPropertyBeforeZoneDropped(t *testing.T) {
	p := firewalldParser{}
	cfg := p.Parse("  ports: 80/tcp\npublic (active)\n  ports: 443/tcp\n")

	require.Len(t, cfg.Groups, 1)
	require.Len(t, cfg.Groups[0].Properties, 1)
	assert.Equal(t, "443/tcp", cfg.Groups[0].Properties[0].Elements[0].Value)
}

func TestParseFirewalldIdempotent(t *testing.T) {
	p := firewalldParser{}
	assert.Equal(t, p.Parse(firewalldListing), p.Parse(firewalldListing))
}
