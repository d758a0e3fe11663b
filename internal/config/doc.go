// Package config loads the tool's runtime settings (configuration file paths,
// dump format, repeat key, log level) from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults. The simulation
// parameters themselves are never read from these sources.
package config
