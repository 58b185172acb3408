// Package logging wires log/slog for the splitter and worker services.
//
// New builds a handler from config (json for deployed environments whose log
// collector ingests stdout, console for local runs). Attr aliases and
// NewComponentLogger keep field naming uniform across components so log-based
// alerting can key on stable fields.
package logging
