package firewall

import "fmt"

// Backend identifies a firewall control tool whose listing output we
// can normalize.
type Backend string

const (
	BackendUFW       Backend = "ufw"
	BackendIptables  Backend = "iptables"
	BackendFirewalld Backend = "firewalld"
)

// Group status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Backends lists all supported backends in display order.
func Backends() []Backend {
	return []Backend{BackendUFW, BackendIptables, BackendFirewalld}
}

// Rule is a single normalized firewall rule. Fields that a backend
// does not provide are left empty.
type Rule struct {
	Number      int    `json:"number"`
	Action      string `json:"action"`
	Direction   string `json:"direction,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Port        string `json:"port,omitempty"`
	Interface   string `json:"interface,omitempty"`
	Match       string `json:"match,omitempty"`
	Options     string `json:"options,omitempty"`
}

// ZoneElement is a single value of a zone property. Temporary means
// the value is present in the runtime configuration but not in the
// permanent one, so it will not survive a reload.
type ZoneElement struct {
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// ZoneProperty is one named collection inside a zone (services,
// ports, sources, ...). Order of properties and elements mirrors the
// tool's own listing order.
type ZoneProperty struct {
	Name     string        `json:"name"`
	Elements []ZoneElement `json:"elements"`
}

// RuleGroup is a chain (table backends) or a zone (zone backends).
// Exactly one of Rules or Properties is populated depending on the
// backend.
type RuleGroup struct {
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	Count      int            `json:"count"`
	Rules      []Rule         `json:"rules,omitempty"`
	Properties []ZoneProperty `json:"properties,omitempty"`
}

// ParsedConfiguration is the unit of output of every parser and the
// unit of input to the differ. It is rebuilt from scratch on every
// refresh and never persisted.
type ParsedConfiguration struct {
	Backend   Backend     `json:"backend"`
	Available bool        `json:"available"`
	Groups    []RuleGroup `json:"groups"`
	Total     int         `json:"total"`
}

// Unavailable returns the configuration reported when a tool is not
// installed or its listing could not be acquired. It is never the
// result of a parse.
func Unavailable(b Backend) *ParsedConfiguration {
	return &ParsedConfiguration{Backend: b, Available: false}
}

// Parser converts one tool's raw listing text into a normalized
// configuration. Implementations hold no state across calls and
// never fail: malformed lines are dropped and parsing continues.
type Parser interface {
	Backend() Backend
	Parse(raw string) *ParsedConfiguration
}

// ParserFor returns the parser for the given backend.
func ParserFor(b Backend) (Parser, error) {
	switch b {
	case BackendUFW:
		return ufwParser{}, nil
	case BackendIptables:
		return iptablesParser{}, nil
	case BackendFirewalld:
		return firewalldParser{}, nil
	default:
		return nil, fmt.Errorf("unknown firewall backend %q", b)
	}
}
