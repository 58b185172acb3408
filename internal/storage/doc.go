// Package storage reads source media from and writes dubbed artifacts to
// Google Cloud Storage.
package storage
