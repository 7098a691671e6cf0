// Package bing provides the Bing Image Search v7 API client.
//
// The client paces outbound requests with a configurable inter-request
// delay, retries transient failures with deterministic exponential backoff,
// and maps JSON responses into typed image metadata, following pagination
// cursors until the requested number of images is collected. Responses keep
// the raw provider fields alongside the typed ones so callers can inspect
// values the mapping does not cover. Options allow tests to supply custom
// HTTP clients and sleep functions without modifying production code.
package bing
