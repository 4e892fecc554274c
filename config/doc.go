// Package config loads the tracker configuration from a YAML file.
package config
