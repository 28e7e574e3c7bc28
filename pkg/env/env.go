package env

import "os"

// Prefix is prepended to every variable looked up through this package,
// matching the envconfig prefix used by pkg/config.
const Prefix = "AROMATEN_"

// Get returns the value of the prefixed environment variable, falling back
// to the bare name, then to the given default. Bootstrap code uses this for
// settings needed before config parsing (log format, env file path).
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
