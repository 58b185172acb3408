// Command dubflow is the operator CLI: previewing how sheet rows would
// dispatch, triggering a running splitter, and managing configuration.
package main
