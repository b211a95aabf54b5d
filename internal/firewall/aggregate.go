package firewall

// Aggregate recomputes per-group counts and the configuration total.
// Group order and rule order are preserved exactly as parsed; the
// structured view must mirror the tool's own listing order, so
// nothing is ever re-sorted here.
func Aggregate(cfg *ParsedConfiguration) {
	total := 0
	for i := range cfg.Groups {
		g := &cfg.Groups[i]
		if g.Properties != nil {
			n := 0
			for _, p := range g.Properties {
				n += len(p.Elements)
			}
			g.Count = n
		} else {
			g.Count = len(g.Rules)
		}
		total += g.Count
	}
	cfg.Total = total
}
