package firewall

import "strings"

// firewalldParser parses 'firewall-cmd --list-all-zones' style output.
// The same parser runs on both the runtime and the permanent listing;
// the differ then tags elements missing from the permanent side.
type firewalldParser struct{}

func (firewalldParser) Backend() Backend { return BackendFirewalld }

// The fixed property set of a zone listing. Lines with other keys are
// ignored.
var zonePropertyKeys = map[string]bool{
	"target":        true,
	"interfaces":    true,
	"sources":       true,
	"services":      true,
	"ports":         true,
	"protocols":     true,
	"forward-ports": true,
	"source-ports":  true,
	"icmp-blocks":   true,
	"masquerade":    true,
}

const richRulesKey = "rich rules"

// Parse scans the listing by line index. A non-indented line opens a
// new zone; indented "key: value" lines fill its properties. The
// "rich rules:" block consumes following lines while they remain
// indented deeper than the key line itself.
func (p firewalldParser) Parse(raw string) *ParsedConfiguration {
	cfg := &ParsedConfiguration{Backend: BackendFirewalld}
	lines := strings.Split(raw, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !isIndented(line) {
			name, status := parseZoneHeader(trimmed)
			if name == "" {
				continue
			}
			cfg.Groups = append(cfg.Groups, RuleGroup{Name: name, Status: status})
			continue
		}

		if len(cfg.Groups) == 0 {
			// Indented property before any zone header: malformed.
			continue
		}
		group := &cfg.Groups[len(cfg.Groups)-1]

		if rest, ok := strings.CutPrefix(trimmed, richRulesKey+":"); ok {
			var values []string
			if v := strings.TrimSpace(rest); v != "" {
				values = append(values, v)
			}
			keyIndent := indentWidth(line)
			for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" && indentWidth(lines[i+1]) > keyIndent {
				i++
				values = append(values, strings.TrimSpace(lines[i]))
			}
			addZoneProperty(group, richRulesKey, values)
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !zonePropertyKeys[key] {
			continue
		}
		addZoneProperty(group, key, strings.Fields(value))
	}

	for _, g := range cfg.Groups {
		cfg.Total += g.Count
	}
	return cfg
}

// parseZoneHeader splits a zone header into name and status. The
// optional parenthesized annotation is a comma-separated token list;
// the zone is active if any token equals "active" case-insensitively.
func parseZoneHeader(line string) (name, status string) {
	status = StatusInactive
	name = line
	if idx := strings.Index(line, "("); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		annotation := strings.TrimSuffix(strings.TrimSpace(line[idx+1:]), ")")
		for _, tok := range strings.Split(annotation, ",") {
			if strings.EqualFold(strings.TrimSpace(tok), StatusActive) {
				status = StatusActive
				break
			}
		}
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", status
	}
	return fields[0], status
}

// addZoneProperty appends a property collection to the group. An
// empty value yields an empty collection, never one containing an
// empty string. Every element counts toward the group total.
func addZoneProperty(group *RuleGroup, key string, values []string) {
	prop := ZoneProperty{Name: key}
	for _, v := range values {
		prop.Elements = append(prop.Elements, ZoneElement{Value: v})
	}
	group.Properties = append(group.Properties, prop)
	group.Count += len(prop.Elements)
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// indentWidth counts leading whitespace, a tab weighing as much as a
// full indent level of spaces.
func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 8
		default:
			return w
		}
	}
	return w
}
