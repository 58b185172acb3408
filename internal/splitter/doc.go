// Package splitter turns a spreadsheet of dubbing jobs into individual
// messages on the job topic, one per data row. Rows fail independently:
// a row that cannot be parsed or published is marked FAILED in place and
// never blocks its neighbors.
package splitter
