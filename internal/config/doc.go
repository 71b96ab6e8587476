// Package config loads the macrograph CLI configuration from macrograph.yaml and MACROGRAPH_*
// environment variables.
package config
