// Package config provides server configuration for NetKeep.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Struct-tag validation and settings directory checks
//
// Configuration is loaded via internal/infra/confloader and supports
// files and environment variables layered over Default().
package config
