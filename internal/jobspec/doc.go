// Package jobspec models the two-tier spreadsheet configuration: the
// batch-wide tool config and the per-row job spec.
//
// Row records are merged against a fixed default template and then parsed
// once into a typed RowConfig; list and object cells accept both JSON and the
// Python literal spellings the sheets historically used. A row that fails
// parsing produces one validation error naming every bad field, and the
// splitter marks it FAILED without dispatching it.
//
// The Payload type is the wire format: exactly four top-level fields
// (worksheet_url, line_config, tool_config, status_columns) so a worker
// invocation is fully self-contained.
package jobspec
