// Command dubflowd serves the dubbing pipeline's HTTP entry points: the
// splitter trigger and the worker push-subscription endpoint, individually
// or together depending on the configured role.
package main
