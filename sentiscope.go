// Package sentiscope builds a small searchable corpus by crawling the web and
// keeps a persistent TF-IDF inverted index over it, annotated with a
// per-document sentiment score. Queries are answered lexically, with a
// taxonomy-based nearest-neighbour fallback when nothing matches.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bolt/, goquery/, gemini/).
package sentiscope
