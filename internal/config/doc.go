// Package config loads and validates YAML configuration for marketpulse.
//
// Configuration sources, in order:
//   - YAML file (path passed on the command line)
//   - ${VAR} environment expansion inside the file
//   - defaults for any field left unset
package config
