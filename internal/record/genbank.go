package record

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matinnuhamunada/bgcstage/internal/ctxlog"
)

// GenBankLoader parses antiSMASH region GenBank files into records. Only the
// header fields and the region feature qualifiers needed by the dataset
// schema are read; everything else in the file is skipped. One record is
// produced per source file.
type GenBankLoader struct{}

// NewGenBankLoader creates a loader for region GenBank files.
func NewGenBankLoader() *GenBankLoader {
	return &GenBankLoader{}
}

// Load implements the Loader interface.
func (l *GenBankLoader) Load(ctx context.Context, paths []string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	set := &Set{Records: make([]Record, 0, len(paths))}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := l.parseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		logger.Debug("Parsed region file.", "path", path, "region", rec.RegionID, "products", rec.Products)
		set.Records = append(set.Records, *rec)
	}

	return set, nil
}

// parseFile extracts one record from a single region GenBank file.
func (l *GenBankLoader) parseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := &Record{
		SourceFile: path,
		RegionID:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	sawLocus := false
	inFeatures := false
	inRegion := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "LOCUS"):
			sawLocus = true
			parseLocus(line, rec)
		case strings.HasPrefix(line, "DEFINITION"):
			rec.Definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION"))
		case strings.HasPrefix(line, "ACCESSION"):
			fields := strings.Fields(line)
			if len(fields) > 1 {
				rec.Accession = fields[1]
			}
		case strings.HasPrefix(line, "FEATURES"):
			inFeatures = true
		case strings.HasPrefix(line, "ORIGIN"):
			// Sequence data follows; nothing left to read.
			return finish(rec, sawLocus, path)
		case inFeatures:
			trimmed := strings.TrimSpace(line)
			// Feature keys sit at column 5; qualifiers are indented further.
			if len(line) > 5 && line[5] != ' ' {
				key := strings.Fields(trimmed)[0]
				inRegion = key == "region" || key == "protocluster"
				continue
			}
			if inRegion {
				parseRegionQualifier(trimmed, rec)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return finish(rec, sawLocus, path)
}

// finish validates the accumulated record before it is returned.
func finish(rec *Record, sawLocus bool, path string) (*Record, error) {
	if !sawLocus {
		return nil, fmt.Errorf("%s: not a GenBank file (missing LOCUS)", path)
	}
	return rec, nil
}

// parseLocus fills accession fallback and sequence length from a LOCUS line:
//
//	LOCUS       JOGH01000001.region001   42968 bp    DNA   linear   BCT 01-JAN-1970
func parseLocus(line string, rec *Record) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return
	}
	if rec.Accession == "" {
		rec.Accession = fields[1]
	}
	for i := 2; i < len(fields)-1; i++ {
		if fields[i+1] == "bp" {
			if n, err := strconv.ParseInt(fields[i], 10, 64); err == nil {
				rec.LengthBP = n
			}
			return
		}
	}
}

// parseRegionQualifier reads the qualifiers of a region feature that feed the
// dataset schema: /product and /contig_edge.
func parseRegionQualifier(trimmed string, rec *Record) {
	switch {
	case strings.HasPrefix(trimmed, "/product="):
		product := strings.Trim(strings.TrimPrefix(trimmed, "/product="), `"`)
		for _, existing := range rec.Products {
			if existing == product {
				return
			}
		}
		rec.Products = append(rec.Products, product)
	case strings.HasPrefix(trimmed, "/contig_edge="):
		value := strings.Trim(strings.TrimPrefix(trimmed, "/contig_edge="), `"`)
		rec.ContigEdge = strings.EqualFold(value, "true")
	}
}
