package directive

import (
	"testing"
	"time"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []Directive{
		Ping(),
		Message("hi"),
		Timer(now.Add(-30*time.Second), 180*time.Second),
		Animation("Heart"),
	}

	for _, d := range cases {
		s := Serialize(d, now)
		parsed, err := Parse(string(s), now)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		s2 := Serialize(parsed, now)
		if string(s) != string(s2) {
			t.Errorf("round trip mismatch: %q != %q", s, s2)
		}
	}
}

func TestTimerRemainingSaturatesAtZero(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := Timer(start, 10*time.Second)

	// Clock moved backwards relative to start: must not exceed Total.
	past := start.Add(-5 * time.Second)
	if got := d.Remaining(past); got != 10*time.Second {
		t.Errorf("Remaining with now before start = %v, want 10s (saturated at Total)", got)
	}

	future := start.Add(20 * time.Second)
	if got := d.Remaining(future); got != 0 {
		t.Errorf("Remaining after expiry = %v, want 0", got)
	}
}

func TestAddTimerMonotonicity(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	d := Directive{} // no current timer
	d = AddTimer(d, now, 2*time.Minute)
	if d.Total != 2*time.Minute {
		t.Fatalf("AddTimer from non-timer = %v, want 2m", d.Total)
	}

	d = AddTimer(d, now.Add(30*time.Second), time.Minute)
	if d.Total != 3*time.Minute {
		t.Fatalf("AddTimer extension = %v, want 3m", d.Total)
	}

	// StartedAt is preserved across extension.
	if !d.StartedAt.Equal(now) {
		t.Errorf("AddTimer changed StartedAt: %v != %v", d.StartedAt, now)
	}
}

func TestParseUnrecognizedVerb(t *testing.T) {
	if _, err := Parse("FOO bar", time.Now()); err == nil {
		t.Error("expected error for unrecognized verb")
	}
}

func TestCanonicalMAC(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"aa:bb:cc:dd:ee:01", "AA:BB:CC:DD:EE:01", true},
		{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:01", true},
		{"not-a-mac", "", false},
		{"aa:bb:cc:dd:ee", "", false},
		{"zz:bb:cc:dd:ee:01", "", false},
	}
	for _, tc := range tests {
		got, ok := CanonicalMAC(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("CanonicalMAC(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseRegister(t *testing.T) {
	mac, err := ParseRegister("REGISTER aa:bb:cc:dd:ee:02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mac != "AA:BB:CC:DD:EE:02" {
		t.Errorf("mac = %q, want AA:BB:CC:DD:EE:02", mac)
	}

	if _, err := ParseRegister("PING"); err == nil {
		t.Error("expected error for non-REGISTER payload")
	}
}
