package record

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegion = `LOCUS       JOGH01000001.region001   42968 bp    DNA     linear   BCT 01-JAN-1970
DEFINITION  Streptomyces sp. NRRL F-5123 contig1.1, whole genome shotgun
ACCESSION   JOGH01000001
VERSION     JOGH01000001.1
FEATURES             Location/Qualifiers
     region          1..42968
                     /contig_edge="True"
                     /product="lanthipeptide"
                     /product="terpene"
                     /region_number="1"
     CDS             complement(2..181)
                     /locus_tag="IF17_RS0100015"
ORIGIN
        1 gccgccgtcg aggcggtcga
//
`

const sampleInterior = `LOCUS       ABC00000002.region002    9000 bp    DNA     linear   BCT 01-JAN-1970
DEFINITION  Example organism chromosome.
ACCESSION   ABC00000002
FEATURES             Location/Qualifiers
     region          1..9000
                     /contig_edge="False"
                     /product="nrps"
ORIGIN
//
`

func writeGBK(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenBankLoader_Load(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeGBK(t, dir, "region001.gbk", sampleRegion)
	b := writeGBK(t, dir, "region002.gbk", sampleInterior)

	set, err := NewGenBankLoader().Load(context.Background(), []string{a, b})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	first := set.Records[0]
	assert.Equal(t, a, first.SourceFile)
	assert.Equal(t, "region001", first.RegionID)
	assert.Equal(t, "JOGH01000001", first.Accession)
	assert.Contains(t, first.Definition, "Streptomyces")
	assert.True(t, first.ContigEdge)
	assert.Equal(t, []string{"lanthipeptide", "terpene"}, first.Products)
	assert.Equal(t, int64(42968), first.LengthBP)

	second := set.Records[1]
	assert.Equal(t, b, second.SourceFile)
	assert.False(t, second.ContigEdge)
	assert.Equal(t, []string{"nrps"}, second.Products)
	assert.Equal(t, int64(9000), second.LengthBP)
}

func TestGenBankLoader_AccessionFallsBackToLocus(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := "LOCUS       CONTIG42   100 bp    DNA   linear\nFEATURES             Location/Qualifiers\n     region          1..100\nORIGIN\n//\n"
	path := writeGBK(t, dir, "region003.gbk", content)

	set, err := NewGenBankLoader().Load(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "CONTIG42", set.Records[0].Accession)
	assert.Equal(t, int64(100), set.Records[0].LengthBP)
}

func TestGenBankLoader_RejectsNonGenBank(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeGBK(t, dir, "bogus.gbk", ">fasta header\nACGT\n")

	_, err := NewGenBankLoader().Load(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing LOCUS")
}

func TestGenBankLoader_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewGenBankLoader().Load(context.Background(), []string{filepath.Join(t.TempDir(), "nope.gbk")})
	require.Error(t, err)
}

func TestSet_Sources(t *testing.T) {
	t.Parallel()
	set := &Set{Records: []Record{
		{SourceFile: "a.gbk"},
		{SourceFile: "b.gbk"},
		{SourceFile: "a.gbk"},
	}}
	assert.Equal(t, []string{"a.gbk", "b.gbk"}, set.Sources())
}
