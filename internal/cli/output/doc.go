// Package output provides output formatting for netkeep-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: Progress animation for slow Wi-Fi operations
package output
