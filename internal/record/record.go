// Package record defines the structured record set produced by parsing BGC
// region files, and the loader contract for producing one.
package record

import "context"

// Record is one parsed region with its fixed schema. Every record carries a
// reference back to the exact source file it was parsed from.
type Record struct {
	SourceFile string
	RegionID   string
	Accession  string
	Definition string
	ContigEdge bool
	Products   []string
	LengthBP   int64
}

// Set is an ordered collection of records.
type Set struct {
	Records []Record
}

// Len returns the number of records in the set.
func (s *Set) Len() int {
	return len(s.Records)
}

// Sources returns the distinct source files referenced by the set, in first
// appearance order.
func (s *Set) Sources() []string {
	seen := make(map[string]bool, len(s.Records))
	var sources []string
	for _, r := range s.Records {
		if !seen[r.SourceFile] {
			seen[r.SourceFile] = true
			sources = append(sources, r.SourceFile)
		}
	}
	return sources
}

// Loader parses a list of input files into a record set. Implementations own
// the parsing semantics entirely; the staging pipeline treats their failures
// as opaque.
type Loader interface {
	Load(ctx context.Context, paths []string) (*Set, error)
}
