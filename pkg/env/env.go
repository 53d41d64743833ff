// Package env reads raw process environment variables. Structured
// configuration lives in pkg/config; this covers the few knobs consulted
// before config is loaded, such as the logger format.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
