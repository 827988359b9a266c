package config

import (
	"os"
	"strings"
)

const DefaultStorePath = "med_schedule.json"

// Config es la configuración de runtime, leída UNA vez del entorno al
// arrancar. Credenciales del proveedor, número emisor, modo test y la ruta
// del documento compartido.
type Config struct {
	StorePath string
	TestMode  bool

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

// FromEnv lee:
// - EASYMED_STORE_PATH (default med_schedule.json)
// - EASYMED_TEST_MODE=true|false (default true: nunca llamamos de verdad por accidente)
// - TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN / TWILIO_FROM_NUMBER (solo modo live)
func FromEnv() Config {
	return Config{
		StorePath: getenvDefault("EASYMED_STORE_PATH", DefaultStorePath),
		TestMode:  parseBool(os.Getenv("EASYMED_TEST_MODE"), true),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	case "0", "f", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
