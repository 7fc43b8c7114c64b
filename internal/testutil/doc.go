// Package testutil holds helpers shared by tests across packages: log
// capture, a stepping clock and temp-dir fixtures.
package testutil
