// Package sheets talks to the configuration spreadsheet: reading worksheets
// as header-keyed tables and writing per-row status cells. Both stages treat
// the spreadsheet as the only shared state; each worker invocation writes
// only its own row's three cells, so no coordination is required.
package sheets
