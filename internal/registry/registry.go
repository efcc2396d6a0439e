// Package registry implements the coordinator's worker-lifecycle store
// (spec §3, §4.2: C-Registry). It generalizes the teacher's
// mutex-protected id-set pattern (components.Tracker's TryJoin/Leave/
// Count) into a full worker record with presence, alias, address, and
// current-directive state, still behind a single coarse mutex — the
// spec explicitly calls finer locking unwarranted at this scale (spec
// §9: "tens of workers, 1-second tick").
package registry

import (
	"net"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/persistent"
)

// Endpoint is a worker's receive address: the coordinator dials this to
// push a directive. Endpoint values are never mutated in place — Add
// always installs a fresh one — so sharing a *Endpoint between a
// Snapshot copy and the live record is race-free.
type Endpoint struct {
	IP   net.IP
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP.String(), strconv.Itoa(e.Port))
}

// Record is a worker entry. It's a plain value type so Snapshot/Get can
// hand out copies that are safe to read without holding the registry's
// lock — spec §5: "network I/O always happens after releasing [the
// lock]".
type Record struct {
	MAC        string
	Alias      string
	Address    *Endpoint
	Active     bool
	Persistent bool

	Current    directive.Directive
	HasCurrent bool // false means "absent", treated as Ping per spec §3
}

// Selector names either one worker or every worker (the "Broadcast"
// sentinel, spec §4.2).
type Selector struct {
	mac       string
	broadcast bool
}

// One targets a single worker's mac.
func One(mac string) Selector { return Selector{mac: mac} }

// All targets every known worker.
func All() Selector { return Selector{broadcast: true} }

// Registry is the coordinator's threadsafe worker store.
type Registry struct {
	mu      sync.Mutex
	records map[string]*Record
	table   *persistent.Table
}

// New creates a Registry pre-populated with inactive entries for every
// persistent worker in table (spec §3 Lifecycle: "created ... at startup
// if persistent").
func New(table *persistent.Table) *Registry {
	r := &Registry{records: make(map[string]*Record), table: table}
	for _, mac := range table.MACs() {
		alias, _ := table.Alias(mac)
		r.records[mac] = &Record{MAC: mac, Alias: alias, Persistent: true}
	}
	return r
}

// Add registers mac as present at addr. An existing entry is revived in
// place; a new, non-persistent entry is created otherwise (spec §4.2).
func (r *Registry) Add(mac string, addr Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, exists := r.records[mac]; exists {
		rec.Active = true
		rec.Address = &addr
		return
	}

	alias, _ := r.table.Alias(mac)
	r.records[mac] = &Record{
		MAC:        mac,
		Alias:      alias,
		Address:    &addr,
		Active:     true,
		Persistent: r.table.IsPersistent(mac),
	}
}

// Remove evicts mac: a persistent worker is only deactivated (Active and
// Address cleared, entry kept); a non-persistent worker is deleted
// outright (spec §3 invariants, §4.2).
func (r *Registry) Remove(mac string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[mac]
	if !exists {
		return
	}
	if rec.Persistent {
		rec.Active = false
		rec.Address = nil
		return
	}
	delete(r.records, mac)
}

// SetCurrent applies d to the worker(s) named by sel. It reports whether
// any record was found (false means the portal should report
// "Unavailable", spec §4.5).
func (r *Registry) SetCurrent(sel Selector, d directive.Directive) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sel.broadcast {
		for _, rec := range r.records {
			rec.Current = d
			rec.HasCurrent = true
		}
		return len(r.records) > 0
	}

	rec, exists := r.records[sel.mac]
	if !exists {
		return false
	}
	rec.Current = d
	rec.HasCurrent = true
	return true
}

// AddTimer implements the timer-add mutator (spec §4.2): it extends an
// existing Timer's Total by incr, or starts a fresh Timer of length incr
// if the worker's current directive isn't already a Timer.
func (r *Registry) AddTimer(sel Selector, now time.Time, incr time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	apply := func(rec *Record) {
		if rec.HasCurrent {
			rec.Current = directive.AddTimer(rec.Current, now, incr)
		} else {
			rec.Current = directive.AddTimer(directive.Directive{}, now, incr)
		}
		rec.HasCurrent = true
	}

	if sel.broadcast {
		if len(r.records) == 0 {
			return false
		}
		for _, rec := range r.records {
			apply(rec)
		}
		return true
	}

	rec, exists := r.records[sel.mac]
	if !exists {
		return false
	}
	apply(rec)
	return true
}

// Get returns a copy of mac's record, if known.
func (r *Registry) Get(mac string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[mac]
	if !exists {
		return Record{}, false
	}
	return *rec, true
}

// Snapshot returns a copy of every record, taken under the lock and
// immediately released — the caller (C-Broadcaster) does all network I/O
// afterward without the registry locked (spec §5).
func (r *Registry) Snapshot() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// List returns every record sorted by mac, for the portal and /ws
// listing.
func (r *Registry) List() []Record {
	out := r.Snapshot()
	slices.SortFunc(out, func(a, b Record) int {
		switch {
		case a.MAC < b.MAC:
			return -1
		case a.MAC > b.MAC:
			return 1
		default:
			return 0
		}
	})
	return out
}
