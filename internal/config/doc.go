// Package config defines the controller settings and provides helpers
// to load, validate and save them in YAML format.
//
// The Config type covers the HTTP listen address, the key-value store
// backend, the output and buzzer wiring, scheduling limits and the NTP
// time source. Validate fills defaults matching the reference board.
package config
