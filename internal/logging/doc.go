// Package logging assembles the structured slog loggers used across
// Harvester.
//
// It centralizes level and output plumbing for the console and JSON
// handlers, provides attr helpers so call sites stay terse, and exposes
// context helpers that tag log lines with per-invocation correlation IDs.
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
