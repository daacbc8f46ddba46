// Package mgmtserver provides the local management API of netkeep-server.
//
// The API is plain HTTP/1.1 served on a Unix domain socket. Access is
// controlled by the socket's file mode, so there is no authentication
// layer. Every JSON response uses the envelope defined in package
// handler; /metrics serves the Prometheus text format.
package mgmtserver
