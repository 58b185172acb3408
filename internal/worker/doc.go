// Package worker consumes dubbing job messages: it downloads the row's
// source media, runs the external engine once per target language, uploads
// the produced artifacts, and writes the row's final OK or FAILED status
// back to the spreadsheet. The spreadsheet row is the only durable record
// of the outcome.
package worker
