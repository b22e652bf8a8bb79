// Package ingest parses instrument exports into trials for the analysis
// engine. Parsers are deliberately thin: they map columns, tolerate header
// junk and locale quirks, and convert raw channels into the series each
// technique expects (engineering stress–strain for tensile, weight over
// temperature for TGA). All numeric interpretation happens downstream in
// the technique package.
package ingest
