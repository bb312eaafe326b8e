// Package e2e drives the assembled HTTP API against sqlite and an in-process
// Redis. Outbound mail is captured so tests can read the issued codes.
package e2e
