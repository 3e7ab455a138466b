// Package names turns raw strings scraped from court directory pages into
// canonical facility names: candidate filtering, line expansion on suffix
// markers, terminator-based tokenization, final cleanup, and the
// dedupe-and-sort aggregation used for every output file.
package names
