// Package directive defines the tagged-variant wire payload exchanged
// between the coordinator and a worker (spec §4.1), and the small
// serialize/parse codec that replaces per-case virtual dispatch: a single
// Serialize function and a single Parse function cover all four message
// shapes a worker can receive, and FormatRegister/ParseRegister cover the
// REGISTER shape a coordinator can receive.
package directive

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind tags which case of the Directive variant is populated.
type Kind int

const (
	// KindPing carries no payload; it's a liveness probe and a no-op on
	// the receiving worker.
	KindPing Kind = iota
	// KindMessage carries Text, rendered as wrapped text.
	KindMessage
	// KindTimer carries StartedAt/Total; remaining time is recomputed at
	// every broadcast relative to StartedAt.
	KindTimer
	// KindAnimation carries Name, resolved worker-side to a compiled-in
	// sprite sheet.
	KindAnimation
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "Ping"
	case KindMessage:
		return "Message"
	case KindTimer:
		return "Timer"
	case KindAnimation:
		return "Animation"
	default:
		return "Unknown"
	}
}

// Directive is a value type: cheap to copy per broadcast tick (short
// strings or two numbers), and safe to snapshot without aliasing mutable
// state (spec §3 invariant: "directives are value types, safe to clone
// per broadcast").
type Directive struct {
	Kind Kind

	Text string // KindMessage

	StartedAt time.Time     // KindTimer
	Total     time.Duration // KindTimer

	Name string // KindAnimation
}

// Ping builds a liveness-probe directive.
func Ping() Directive { return Directive{Kind: KindPing} }

// Message builds a text directive.
func Message(text string) Directive { return Directive{Kind: KindMessage, Text: text} }

// Timer builds a countdown directive starting at startedAt with the given
// total duration.
func Timer(startedAt time.Time, total time.Duration) Directive {
	return Directive{Kind: KindTimer, StartedAt: startedAt, Total: total}
}

// Animation builds a directive naming a compiled-in sprite sheet.
func Animation(name string) Directive { return Directive{Kind: KindAnimation, Name: name} }

// Remaining computes total-(now-start) for a timer directive, clamped to
// [0, Total] so it never goes negative (now after expiry) or exceeds
// Total (now observed before start, e.g. a clock that isn't monotonic
// across machines) — spec §9 Open Question: never assume now >=
// StartedAt.
func (d Directive) Remaining(now time.Time) time.Duration {
	if d.Kind != KindTimer {
		return 0
	}
	elapsed := now.Sub(d.StartedAt)
	remaining := d.Total - elapsed
	if remaining < 0 {
		return 0
	}
	if remaining > d.Total {
		return d.Total
	}
	return remaining
}

// AddTimer extends a Timer's total duration by incr, or — if d isn't
// currently a Timer — starts a fresh one of duration incr beginning now
// (spec §4.2 timer-add semantics).
func AddTimer(d Directive, now time.Time, incr time.Duration) Directive {
	if d.Kind == KindTimer {
		return Directive{Kind: KindTimer, StartedAt: d.StartedAt, Total: d.Total + incr}
	}
	return Timer(now, incr)
}

// Serialize renders d as the wire bytes a TCP connection would carry for
// one message (spec §4.1). now is used to recompute a Timer's remaining
// duration at write time, so a stale snapshot never desyncs from
// wall-clock time even if earlier broadcasts were lost.
func Serialize(d Directive, now time.Time) []byte {
	switch d.Kind {
	case KindMessage:
		return []byte("MESSAGE " + d.Text)
	case KindTimer:
		remaining := int64(d.Remaining(now) / time.Second)
		total := int64(d.Total / time.Second)
		return []byte(fmt.Sprintf("TIMER %d/%d", remaining, total))
	case KindAnimation:
		return []byte("ANIMATE " + d.Name)
	default:
		return []byte("PING")
	}
}

// Parse decodes the bytes of one connection's payload into a Directive,
// reconstructing a Timer's StartedAt relative to now so that
// Serialize(Parse(s, now), now) == s for any s Serialize could have
// produced. It accepts exactly the four coordinator->worker verbs in spec
// §4.1; any other verb is reported as an error so the caller can
// log-and-discard without treating it as fatal (spec §7: malformed
// directive is never fatal).
func Parse(payload string, now time.Time) (Directive, error) {
	payload = strings.TrimSpace(payload)
	verb, rest, _ := strings.Cut(payload, " ")
	switch verb {
	case "PING":
		return Ping(), nil
	case "MESSAGE":
		return Message(rest), nil
	case "TIMER":
		cur, tot, ok := strings.Cut(rest, "/")
		if !ok {
			return Directive{}, fmt.Errorf("directive: malformed TIMER payload %q", payload)
		}
		curSecs, err := strconv.ParseInt(cur, 10, 64)
		if err != nil {
			return Directive{}, fmt.Errorf("directive: malformed TIMER remaining %q: %w", cur, err)
		}
		totSecs, err := strconv.ParseInt(tot, 10, 64)
		if err != nil {
			return Directive{}, fmt.Errorf("directive: malformed TIMER total %q: %w", tot, err)
		}
		// Reconstruct a StartedAt consistent with the reported remaining
		// time; the worker only ever reads Remaining/Total back out,
		// never StartedAt itself.
		total := time.Duration(totSecs) * time.Second
		remaining := time.Duration(curSecs) * time.Second
		startedAt := now.Add(remaining - total)
		return Directive{Kind: KindTimer, StartedAt: startedAt, Total: total}, nil
	case "ANIMATE":
		if rest == "" {
			return Directive{}, fmt.Errorf("directive: ANIMATE missing name")
		}
		return Animation(rest), nil
	default:
		return Directive{}, fmt.Errorf("directive: unrecognized verb %q", verb)
	}
}
