// Package convert runs a conversion pass: it discovers work, prepares the
// destination tree and converts audio on a bounded worker pool.
//
// Workers never touch shared state. Each job produces exactly one
// model.Outcome on a results channel; the Manager drains them on its own
// goroutine, updates the Summary and forwards them to the Reporter.
//
// A failed job leaves no file at its target, so running the same command
// again retries exactly the jobs that did not finish.
package convert
