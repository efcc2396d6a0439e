package directive

import "strings"

// CanonicalMAC normalizes s into the canonical colon-separated uppercase
// form HH:HH:HH:HH:HH:HH, returning ok=false if s isn't a 48-bit MAC in
// that shape (we don't accept dash-separated or bare-hex forms — the
// worker always sends the canonical form itself, so any other shape on
// the wire is a malformed REGISTER).
func CanonicalMAC(s string) (mac string, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return "", false
	}
	for _, p := range parts {
		if len(p) != 2 {
			return "", false
		}
		for _, r := range p {
			if !isHex(r) {
				return "", false
			}
		}
	}
	return strings.ToUpper(s), true
}

func isHex(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
