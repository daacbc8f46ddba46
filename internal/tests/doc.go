// Package tests holds end-to-end tests that run the daemon, the
// management socket and the CLI client together against a scripted
// wireless toolchain.
package tests
