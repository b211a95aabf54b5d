package firewall

import (
	"regexp"
	"strings"
)

// iptablesParser parses 'iptables -L -n' style output, optionally
// concatenated across tables with '*table' marker lines, into one
// group per table/chain pair.
type iptablesParser struct{}

func (iptablesParser) Backend() Backend { return BackendIptables }

var (
	chainHeaderRe = regexp.MustCompile(`^Chain\s+(\S+)`)

	// Targets and user-defined chains are conventionally upper case.
	targetRe = regexp.MustCompile(`^[A-Z][A-Z0-9_-]*$`)

	ipv4AddrRe = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}(/\d{1,2})?$`)
)

var iptablesProtocols = map[string]bool{
	"tcp": true, "udp": true, "udplite": true, "icmp": true,
	"icmpv6": true, "esp": true, "ah": true, "sctp": true, "all": true,
}

// Match-module keywords that show up as bare tokens in -L output.
var iptablesMatchWords = map[string]bool{
	"state": true, "ctstate": true, "multiport": true, "limit": true,
	"recent": true, "conntrack": true, "owner": true, "mark": true,
	"icmptype": true, "policy": true,
}

// Parse walks the listing with a small state machine: the current
// table (default "filter") is updated by table markers, the current
// chain (default "INPUT") by "Chain X" headers. Column-header rows
// are consumed and discarded. Every other non-empty line is
// tokenized into a rule or dropped if no target can be recognized.
func (p iptablesParser) Parse(raw string) *ParsedConfiguration {
	cfg := &ParsedConfiguration{Backend: BackendIptables}

	table := "filter"
	chain := "INPUT"
	num := 0

	groupIdx := make(map[string]int)
	group := func() *RuleGroup {
		key := table + "-" + chain
		if i, ok := groupIdx[key]; ok {
			return &cfg.Groups[i]
		}
		cfg.Groups = append(cfg.Groups, RuleGroup{Name: key})
		groupIdx[key] = len(cfg.Groups) - 1
		return &cfg.Groups[len(cfg.Groups)-1]
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Table markers: "*nat" (iptables-save style) or "Table: nat".
		if strings.HasPrefix(line, "*") {
			table = strings.TrimSpace(strings.TrimPrefix(line, "*"))
			chain = "INPUT"
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Table:"); ok {
			table = strings.TrimSpace(rest)
			chain = "INPUT"
			continue
		}

		if m := chainHeaderRe.FindStringSubmatch(line); m != nil {
			chain = m[1]
			group() // chains persist even with zero rules
			continue
		}

		if isColumnHeader(line) {
			continue
		}

		rule, ok := tokenizeIptablesRule(line)
		if !ok {
			continue
		}
		num++
		rule.Number = num
		g := group()
		g.Rules = append(g.Rules, rule)
		g.Count++
	}

	for _, g := range cfg.Groups {
		cfg.Total += g.Count
	}
	return cfg
}

// isColumnHeader reports whether the line is the column-header row
// printed under each chain header. It is identified by the
// co-occurrence of its fixed keywords, never by position.
func isColumnHeader(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}
	return seen["target"] && seen["prot"] && seen["source"] && seen["destination"]
}

// tokenizeIptablesRule classifies each whitespace-separated token in
// priority order. Unrecognized tokens are appended to the options
// string so no information is lost.
func tokenizeIptablesRule(line string) (Rule, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Rule{}, false
	}

	// Optional leading numeric index from --line-numbers output. The
	// embedded numbering is not trusted; rules are renumbered in
	// parse order.
	i := 0
	if isNumeric(fields[i]) {
		i++
	}
	if i >= len(fields) || !targetRe.MatchString(fields[i]) {
		return Rule{}, false
	}

	rule := Rule{Action: fields[i]}
	for _, tok := range fields[i+1:] {
		switch {
		case rule.Protocol == "" && iptablesProtocols[strings.ToLower(tok)]:
			rule.Protocol = tok
		case isIptablesAddress(tok):
			if rule.Source == "" {
				rule.Source = tok
			} else if rule.Destination == "" {
				rule.Destination = tok
			} else {
				rule.Options = appendWord(rule.Options, tok)
			}
		case strings.HasPrefix(tok, "dpt:"):
			rule.Port = strings.TrimPrefix(tok, "dpt:")
		case strings.HasPrefix(tok, "dpts:"):
			rule.Port = strings.TrimPrefix(tok, "dpts:")
		case strings.HasPrefix(tok, "spt:"):
			rule.Port = strings.TrimPrefix(tok, "spt:")
		case strings.HasPrefix(tok, "spts:"):
			rule.Port = strings.TrimPrefix(tok, "spts:")
		case strings.HasPrefix(tok, "in:"):
			rule.Interface = strings.TrimPrefix(tok, "in:")
		case strings.HasPrefix(tok, "out:"):
			rule.Interface = strings.TrimPrefix(tok, "out:")
		case iptablesMatchWords[strings.ToLower(tok)]:
			rule.Match = appendWord(rule.Match, tok)
		default:
			rule.Options = appendWord(rule.Options, tok)
		}
	}
	return rule, true
}

func isIptablesAddress(tok string) bool {
	if strings.EqualFold(tok, "anywhere") || tok == "0.0.0.0/0" || tok == "::/0" {
		return true
	}
	return ipv4AddrRe.MatchString(tok)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func appendWord(s, word string) string {
	if s == "" {
		return word
	}
	return s + " " + word
}
