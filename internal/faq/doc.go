// Package faq defines the FAQ entry type and reads and appends entries in
// the supported source formats: JSON, YAML and SQLite.
//
// Entry identity is position: the i-th entry of a source is entry i everywhere
// else in faqmatch (index vectors, match results, telemetry).
package faq
