// Package persistent holds the compile-time table of known worker
// aliases (spec §3, §6: "a compiled-in constant map mac -> alias. No
// runtime mutation path."). It's consulted read-only by the registry
// during worker construction and alias lookup — grounded on the
// teacher's registry.Registry pattern of named entries registered once
// at process start and looked up by key thereafter.
package persistent

import (
	"slices"
	"strings"

	"github.com/oledcluster/microbroadcast/internal/directive"
)

// Table is an immutable, process-wide mac -> alias map. The zero value is
// an empty table (no persistent workers).
type Table struct {
	aliases map[string]string
}

// defaultEntries is the compiled-in persistent-worker roster. Extend this
// list to give a worker a durable identity across reboots and evictions.
var defaultEntries = map[string]string{
	"AA:BB:CC:DD:EE:01": "Alice",
}

// Default returns the compiled-in table.
func Default() *Table {
	return New(defaultEntries)
}

// New builds a Table from an explicit mac->alias map, canonicalizing keys.
// Used both for Default() and for the optional YAML config override
// (cmd/coordinator's -c flag) — in both cases the table is built
// exactly once at startup, never mutated afterward.
func New(entries map[string]string) *Table {
	t := &Table{aliases: make(map[string]string, len(entries))}
	for mac, alias := range entries {
		if canon, ok := directive.CanonicalMAC(mac); ok {
			t.aliases[canon] = alias
		}
	}
	return t
}

// Alias returns the alias for mac and whether mac is a persistent worker.
func (t *Table) Alias(mac string) (string, bool) {
	alias, ok := t.aliases[mac]
	return alias, ok
}

// IsPersistent reports whether mac appears in the table.
func (t *Table) IsPersistent(mac string) bool {
	_, ok := t.aliases[mac]
	return ok
}

// MACs returns all persistent MACs in sorted order.
func (t *Table) MACs() []string {
	macs := make([]string, 0, len(t.aliases))
	for mac := range t.aliases {
		macs = append(macs, mac)
	}
	slices.Sort(macs)
	return macs
}

// String renders the table for debug logging.
func (t *Table) String() string {
	var b strings.Builder
	for _, mac := range t.MACs() {
		alias, _ := t.Alias(mac)
		b.WriteString(mac)
		b.WriteString("=")
		b.WriteString(alias)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
