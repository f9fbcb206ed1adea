// Package config loads the shared settings of the release tools from
// an optional YAML file and overlays environment variables. Defaults
// are applied first, then the file, then the environment.
package config
