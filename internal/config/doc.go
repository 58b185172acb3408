// Package config loads dubflow settings from two sources: an optional TOML
// file for ambient tuning (bind address, engine binary, status columns, log
// output) and the process environment for deployment identity. The
// environment preflight is strict; a missing identifier halts startup before
// any spreadsheet row is touched.
package config
