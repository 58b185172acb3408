// Package testsupport provides in-memory fakes for the external
// collaborators (spreadsheet, topic, object store, dubbing engine) plus
// config builders shared across package tests.
package testsupport
