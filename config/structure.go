// Package config loads and validates the module's configuration: logging
// settings and the named data sources a pool can resolve aliases against.
package config

// Config is the root configuration structure.
type Config struct {
	Log         LogConfig             `koanf:"log"`
	DataSources map[string]DataSource `koanf:"datasources" validate:"dive"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string `koanf:"level" validate:"required"`
	// Pretty switches to human-readable console output.
	Pretty bool `koanf:"pretty"`
}

// DataSource names one connectable database. The connection string is an
// opaque driver-manager string and is passed through without parsing or
// validation of its contents.
type DataSource struct {
	ConnectionString string `koanf:"connection_string" validate:"required"`
}
