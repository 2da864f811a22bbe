package barcode

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func Test_QueryNames_fasta(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contigs.fasta")

	fasta := ">contig_1 length=5231 coverage=12.1\nACGTACGT\nACGT\n" +
		">contig_2\nTTTT\n" +
		">contig_3 misc\nGGGG\n"
	if err := os.WriteFile(path, []byte(fasta), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := QueryNames(path)
	if err != nil {
		t.Fatalf("QueryNames() unexpected error: %v", err)
	}

	// only the first token counts: it's the name minimap2 reports in PAF
	want := []string{"contig_1", "contig_2", "contig_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryNames() = %v, want %v", got, want)
	}
}

func Test_QueryNames_gzippedFastq(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fastq.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	fastq := "@read_1\nACGT\n+\nIIII\n@read_2\nTTTT\n+\nIIII\n"
	if _, err := gz.Write([]byte(fastq)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := QueryNames(path)
	if err != nil {
		t.Fatalf("QueryNames() unexpected error: %v", err)
	}
	want := []string{"read_1", "read_2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QueryNames() = %v, want %v", got, want)
	}
}

func Test_QueryNames_missingFile(t *testing.T) {
	if _, err := QueryNames(filepath.Join(t.TempDir(), "nope.fasta")); err == nil {
		t.Error("QueryNames() expected an error for a missing file")
	}
}
