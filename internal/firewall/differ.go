package firewall

// Diff compares a runtime zone configuration against the permanent
// one and returns a copy of the runtime configuration whose elements
// are tagged temporary when they are absent from the permanent
// listing for the same zone and property. A runtime zone with no
// permanent counterpart is fully temporary.
//
// Diff is a pure function: neither input is mutated, and the
// temporary flags are computed fresh on every call.
func Diff(runtime, permanent *ParsedConfiguration) *ParsedConfiguration {
	perm := make(map[string]map[string]map[string]struct{}, len(permanent.Groups))
	for _, g := range permanent.Groups {
		props := make(map[string]map[string]struct{}, len(g.Properties))
		for _, p := range g.Properties {
			set := make(map[string]struct{}, len(p.Elements))
			for _, e := range p.Elements {
				set[e.Value] = struct{}{}
			}
			props[p.Name] = set
		}
		perm[g.Name] = props
	}

	out := &ParsedConfiguration{
		Backend:   runtime.Backend,
		Available: runtime.Available,
		Total:     runtime.Total,
		Groups:    make([]RuleGroup, len(runtime.Groups)),
	}
	for gi, g := range runtime.Groups {
		ng := g
		permProps := perm[g.Name] // nil when the zone is runtime-only
		ng.Properties = make([]ZoneProperty, len(g.Properties))
		for pi, p := range g.Properties {
			np := ZoneProperty{Name: p.Name}
			if len(p.Elements) > 0 {
				np.Elements = make([]ZoneElement, len(p.Elements))
			}
			set := permProps[p.Name]
			for ei, e := range p.Elements {
				_, kept := set[e.Value]
				np.Elements[ei] = ZoneElement{Value: e.Value, Temporary: !kept}
			}
			ng.Properties[pi] = np
		}
		out.Groups[gi] = ng
	}
	return out
}
