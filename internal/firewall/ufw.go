package firewall

import (
	"regexp"
	"strings"
)

// ufwParser parses 'ufw status numbered' style output into a single
// flat group of rules.
type ufwParser struct{}

func (ufwParser) Backend() Backend { return BackendUFW }

// ufwRuleRe matches numbered rule lines like:
//
//	[ 1] 22/tcp                     ALLOW IN    Anywhere
//	[12] 80,443/tcp (v6)            ALLOW IN    Anywhere (v6)
//
// Whitespace between columns is irregular, so the pattern is
// deliberately loose about it.
var ufwRuleRe = regexp.MustCompile(`^\[\s*(\d+)\]\s+(\S+(?:\s+\(v6\))?)\s+(ALLOW|DENY|REJECT|LIMIT)(?:\s+(IN|OUT|FWD))?\s+(.+)$`)

// Parse extracts the numbered rule lines and ignores everything else
// (status banner, column headers, separators, blanks). Rule numbers
// are assigned in parse order; the bracketed index in the source may
// have gaps from prior deletions and is not trusted.
func (p ufwParser) Parse(raw string) *ParsedConfiguration {
	cfg := &ParsedConfiguration{Backend: BackendUFW}

	group := RuleGroup{Name: "rules", Status: StatusInactive}
	num := 0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Status:") {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(line, "Status:")), StatusActive) {
				group.Status = StatusActive
			}
			continue
		}

		m := ufwRuleRe.FindStringSubmatch(line)
		if m == nil {
			// Header, separator, or malformed line.
			continue
		}

		token, action, direction, source := m[2], m[3], m[4], strings.TrimSpace(m[5])
		if direction == "" {
			direction = "IN"
		}

		v6 := strings.Contains(line, "(v6)")
		port, proto := splitPortToken(token, v6)

		num++
		group.Rules = append(group.Rules, Rule{
			Number:    num,
			Action:    action,
			Direction: direction,
			Protocol:  proto,
			Source:    source,
			Port:      port,
		})
	}

	group.Count = len(group.Rules)
	cfg.Groups = []RuleGroup{group}
	cfg.Total = group.Count
	return cfg
}

// splitPortToken derives port and protocol from the To column token.
// "X/tcp" and "X/udp" carry their protocol; ranges, bare numeric
// ports, and service names default to TCP. An IPv6 annotation on the
// line overrides any protocol suffix.
func splitPortToken(token string, v6 bool) (port, proto string) {
	token = strings.TrimSpace(strings.TrimSuffix(token, "(v6)"))

	port = token
	proto = "TCP"
	if idx := strings.LastIndex(token, "/"); idx > 0 {
		switch strings.ToLower(token[idx+1:]) {
		case "tcp":
			port, proto = token[:idx], "TCP"
		case "udp":
			port, proto = token[:idx], "UDP"
		}
	}
	if v6 {
		proto = "IPv6"
	}
	return port, proto
}
