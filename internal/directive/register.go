package directive

import (
	"fmt"
	"strings"
)

// FormatRegister renders the worker->coordinator REGISTER message for mac
// (spec §4.1). mac must already be in canonical form.
func FormatRegister(mac string) []byte {
	return []byte("REGISTER " + mac)
}

// ParseRegister decodes a REGISTER payload into a canonical MAC. Any other
// verb, or a malformed MAC, is reported as an error — per spec §7 this is
// logged and the connection is closed without a registry change.
func ParseRegister(payload string) (mac string, err error) {
	payload = strings.TrimSpace(payload)
	verb, rest, ok := strings.Cut(payload, " ")
	if !ok || verb != "REGISTER" {
		return "", fmt.Errorf("directive: not a REGISTER message: %q", payload)
	}
	mac, valid := CanonicalMAC(rest)
	if !valid {
		return "", fmt.Errorf("directive: malformed MAC in REGISTER: %q", rest)
	}
	return mac, nil
}
