package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIptablesSingleChain(t *testing.T) {
	raw := `Chain INPUT (policy ACCEPT)
num  target     prot opt source               destination
1    ACCEPT     tcp  --  0.0.0.0/0            0.0.0.0/0            tcp dpt:22
`
	p := iptablesParser{}
	cfg := p.Parse(raw)

	require.Len(t, cfg.Groups, 1)
	group := cfg.Groups[0]
	assert.Equal(t, "filter-INPUT", group.Name)
	require.Len(t, group.Rules, 1)

	rule := group.Rules[0]
	assert.Equal(t, 1, rule.Number)
	assert.Equal(t, "ACCEPT", rule.Action)
	assert.Equal(t, "tcp", rule.Protocol)
	assert.Equal(t, "22", rule.Port)
	assert.Equal(t, "0.0.0.0/0", rule.Source)
	assert.Equal(t, "0.0.0.0/0", rule.Destination)
}

func TestParseIptablesMultipleTables(t *testing.T) {
	raw := `*filter
Chain INPUT (policy DROP)
num  target     prot opt source               destination
1    ACCEPT     all  --  anywhere             anywhere             state RELATED,ESTABLISHED
2    DROP       udp  --  10.0.0.0/8           anywhere             udp dpt:53

Chain FORWARD (policy ACCEPT)
num  target     prot opt source               destination

*nat
Chain PREROUTING (policy ACCEPT)
num  target     prot opt source               destination
1    DNAT       tcp  --  anywhere             192.168.1.10         tcp dpt:8080
`
	p := iptablesParser{}
	cfg := p.Parse(raw)

	require.Len(t, cfg.Groups, 3)
	assert.Equal(t, "filter-INPUT", cfg.Groups[0].Name)
	assert.Equal(t, "filter-FORWARD", cfg.Groups[1].Name)
	assert.Equal(t, "nat-PREROUTING", cfg.Groups[2].Name)

	// Chains persist even with zero rules.
	assert.Empty(t, cfg.Groups[1].Rules)
	assert.Equal(t, 0, cfg.Groups[1].Count)

	assert.Equal(t, 2, cfg.Groups[0].Count)
	assert.Equal(t, 1, cfg.Groups[2].Count)
	assert.Equal(t, 3, cfg.Total)

	// Rule numbers are contiguous across the whole parse.
	assert.Equal(t, 1, cfg.Groups[0].Rules[0].Number)
	assert.Equal(t, 2, cfg.Groups[0].Rules[1].Number)
	assert.Equal(t, 3, cfg.Groups[2].Rules[0].Number)

	first := cfg.Groups[0].Rules[0]
	assert.Equal(t, "state", first.Match)
	assert.Equal(t, "anywhere", first.Source)
	assert.Equal(t, "anywhere", first.Destination)
	assert.Contains(t, first.Options, "RELATED,ESTABLISHED")

	nat := cfg.Groups[2].Rules[0]
	assert.Equal(t, "DNAT", nat.Action)
	assert.Equal(t, "192.168.1.10", nat.Destination)
	assert.Equal(t, "8080", nat.Port)
}

func TestParseIptablesInterfaceTokens(t *testing.T) {
	raw := `Chain FORWARD (policy DROP)
target     prot opt source               destination
ACCEPT     all  --  anywhere             anywhere             in:eth0 out:eth1
`
	p := iptablesParser{}
	cfg := p.Parse(raw)

	require.Len(t, cfg.Groups, 1)
	require.Len(t, cfg.Groups[0].Rules, 1)
	// Last interface tag wins; both appeared on the line.
	assert.Equal(t, "eth1", cfg.Groups[0].Rules[0].Interface)
}

func TestParseIptablesDiscardsRowsWithoutTarget(t *testing.T) {
	raw := `Chain INPUT (policy ACCEPT)
target     prot opt source               destination
ACCEPT     tcp  --  anywhere             anywhere             tcp dpt:80
garbage row with no recognizable action
12345
`
	p := iptablesParser{}
	cfg := p.Parse(raw)

	require.Len(t, cfg.Groups, 1)
	assert.Len(t, cfg.Groups[0].Rules, 1)
	assert.Equal(t, 1, cfg.Total)
}

func TestParseIptablesCountsMatchTokenizedRows(t *testing.T) {
	raw := `*filter
Chain INPUT (policy ACCEPT)
num  target     prot opt source               destination
1    ACCEPT     tcp  --  anywhere             anywhere             tcp dpt:22
2    REJECT     tcp  --  anywhere             anywhere             tcp dpt:23
bogus
Chain OUTPUT (policy ACCEPT)
num  target     prot opt source               destination
1    ACCEPT     all  --  anywhere             anywhere
`
	p := iptablesParser{}
	cfg := p.Parse(raw)

	sum := 0
	rows := 0
	for _, g := range cfg.Groups {
		sum += g.Count
		rows += len(g.Rules)
	}
	assert.Equal(t, rows, sum)
	assert.Equal(t, 3, sum)
	assert.Equal(t, cfg.Total, sum)
}

func TestParseIptablesDefaultTableAndChain(t *testing.T) {
	// No markers and no chain header at all: rules land in the
	// default filter-INPUT group.
	p := iptablesParser{}
	cfg := p.Parse("ACCEPT     tcp  --  anywhere             anywhere             tcp dpt:443\n")

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "filter-INPUT", cfg.Groups[0].Name)
	assert.Equal(t, "443", cfg.Groups[0].Rules[0].Port)
}

func TestParseIptablesIdempotent(t *testing.T) {
	raw := `Chain INPUT (policy ACCEPT)
target     prot opt source               destination
ACCEPT     tcp  --  anywhere             anywhere             tcp dpt:22
`
	p := iptablesParser{}
	assert.Equal(t, p.Parse(raw), p.Parse(raw))
}
