// Package connection provides the management API client for netkeep-cli.
//
// The client speaks HTTP over the daemon's Unix socket and unwraps the
// response envelope. An http:// target connects over TCP instead, which
// is handy for port-forwarded sockets and tests.
package connection
