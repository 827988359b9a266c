package reminders

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number format")

// NormalizePhone lleva un número al formato canónico del proveedor:
// '+' seguido solo de dígitos. Quita espacios y guiones y antepone '+' si
// falta. Si después de limpiar quedan caracteres no numéricos, el número se
// rechaza (el despacho de ese paciente se saltea, nunca revienta el loop).
func NormalizePhone(raw string) (string, error) {
	n := strings.TrimSpace(raw)
	n = strings.ReplaceAll(n, " ", "")
	n = strings.ReplaceAll(n, "-", "")

	if !strings.HasPrefix(n, "+") {
		n = "+" + n
	}

	digits := n[1:]
	if digits == "" {
		return "", ErrInvalidPhone
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return n, nil
}
