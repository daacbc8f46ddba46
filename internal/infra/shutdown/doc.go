// Package shutdown coordinates graceful daemon termination.
//
// Components register named hooks as they start. On SIGINT, SIGTERM or
// an explicit Trigger, hooks run in reverse registration order under a
// shared deadline, and every hook error is reported.
package shutdown
