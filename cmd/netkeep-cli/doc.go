// Package main provides the entry point for netkeep-cli.
//
// netkeep-cli is the command-line management tool for netkeep-server. It
// talks to the daemon over its management socket.
package main
