// Package firewall normalizes the textual listings of host firewall
// control tools into one unified, queryable structure.
//
// # Overview
//
// Three backends are supported: a flat allow/deny rule lister (ufw),
// a table/chain packet-filter lister (iptables), and a zone-based
// lister with separate runtime and permanent configurations
// (firewalld). Each backend has a dedicated parser behind the shared
// [Parser] interface; all of them are stateless and tolerate
// malformed input by dropping lines rather than failing.
//
// # Architecture
//
//	Source → Parser → (firewalld only) Diff → Aggregate → Snapshot
//
// # Key Types
//
//   - [Source]: runs the tools via a [CommandRunner] and returns raw text
//   - [ParsedConfiguration]: the normalized output of any parser
//   - [Diff]: tags runtime zone elements missing from the permanent
//     configuration as temporary (they will not survive a reload)
//   - [Engine]: one refresh across all enabled backends
//
// Parsing is deterministic and purely in-memory: identical input
// always yields identical output, and nothing is persisted between
// refreshes.
package firewall
