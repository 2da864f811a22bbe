package barcode

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestClassifyAll_preservesOrder(t *testing.T) {
	records := []Record{
		hit("readB", "barcodeX", 90, 100, 100, 60),
		hit("readA", "barcodeY", 90, 100, 100, 60),
		hit("readB", "barcodeX", 85, 100, 100, 60),
	}
	queries := []string{"readC", "readA", "readB"}
	opts := Options{Weighting: WeightCount, Sep: "|"}

	for _, workers := range []int{1, 4, 32} {
		results := ClassifyAll(opts, queries, records, workers)

		var order []string
		for _, r := range results {
			order = append(order, r.Query)
		}
		if !reflect.DeepEqual(order, queries) {
			t.Fatalf("workers=%d: result order = %v, want %v", workers, order, queries)
		}

		if results[0].Label != LabelUnclassified {
			t.Errorf("workers=%d: readC label = %q, want unclassified", workers, results[0].Label)
		}
		if results[1].Label != "barcodeY" {
			t.Errorf("workers=%d: readA label = %q, want barcodeY", workers, results[1].Label)
		}
		if results[2].Label != "barcodeX" || results[2].Score != 2 {
			t.Errorf("workers=%d: readB = %+v, want barcodeX with score 2", workers, results[2])
		}
	}
}

func TestClassifyAll_empty(t *testing.T) {
	if got := ClassifyAll(DefaultOptions(), nil, nil, 4); len(got) != 0 {
		t.Errorf("ClassifyAll() on no queries returned %d results, want 0", len(got))
	}
}

func Test_mergeQueries(t *testing.T) {
	records := []Record{
		{QName: "readB"},
		{QName: "readD"},
		{QName: "readB"},
	}

	tests := []struct {
		name     string
		universe []string
		want     []string
	}{
		{"universe first, paf-only appended", []string{"readA", "readB", "readC"}, []string{"readA", "readB", "readC", "readD"}},
		{"no universe falls back to paf order", nil, []string{"readB", "readD"}},
		{"duplicate universe names collapse", []string{"readA", "readA"}, []string{"readA", "readB", "readD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeQueries(tt.universe, records); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeQueries() = %v, want %v", got, tt.want)
			}
		})
	}
}

// end to end over a pre-computed PAF: filter, vote, report, summary
func Test_Run(t *testing.T) {
	dir := t.TempDir()

	paf := filepath.Join(dir, "sample.paf")
	pafContent := strings.Join([]string{
		pafLine("readA", "1000", "0", "990", "+", "barcodeX", "100", "0", "99", "98", "100", "60"),
		pafLine("readA", "1000", "0", "990", "+", "barcodeX", "100", "0", "99", "95", "100", "55"),
		pafLine("readA", "1000", "0", "990", "+", "barcodeY", "100", "0", "99", "50", "100", "10"),
		pafLine("readB", "800", "0", "790", "+", "barcodeX", "100", "0", "99", "90", "100", "60"),
		pafLine("readB", "800", "0", "790", "-", "barcodeY", "100", "0", "99", "90", "100", "60"),
	}, "\n") + "\n"
	if err := os.WriteFile(paf, []byte(pafContent), 0644); err != nil {
		t.Fatal(err)
	}

	query := filepath.Join(dir, "reads.fasta")
	fasta := ">readA\nACGTACGT\n>readB\nACGTACGT\n>readC\nACGTACGT\n"
	if err := os.WriteFile(query, []byte(fasta), 0644); err != nil {
		t.Fatal(err)
	}

	var summary bytes.Buffer
	run := RunOptions{
		Vote: Options{
			MinMapQ:   30,
			Weighting: WeightCount,
			Sep:       "|",
		},
		PAFPath:   paf,
		QueryPath: query,
		OutPrefix: filepath.Join(dir, "out", "sample"),
		Workers:   4,
		SaveHits:  true,
		Summary:   &summary,
	}

	if err := Run(run); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	final, err := os.ReadFile(filepath.Join(dir, "out", "sample.final_results.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	wantFinal := "read_id\tfinal_category\tvote_score\trunner_up_score\tn_hits\n" +
		"readA\tbarcodeX\t2\t0\t2\n" +
		"readB\tambiguous\t1\t1\t2\n" +
		"readC\tunclassified\t0\t0\t0\n"
	if string(final) != wantFinal {
		t.Errorf("final results = %q, want %q", final, wantFinal)
	}

	hits, err := os.ReadFile(filepath.Join(dir, "out", "sample.filtered_hits.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	wantHits := "read_id\ttarget_id\tscore\n" +
		"readA\tbarcodeX\t1\n" +
		"readA\tbarcodeX\t1\n" +
		"readB\tbarcodeX\t1\n" +
		"readB\tbarcodeY\t1\n"
	if string(hits) != wantHits {
		t.Errorf("filtered hits = %q, want %q", hits, wantHits)
	}

	for _, want := range []string{"barcodeX", "ambiguous", "unclassified", "total"} {
		if !strings.Contains(summary.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, summary.String())
		}
	}

	// identical input and settings must reproduce the report byte for byte
	if err := Run(run); err != nil {
		t.Fatalf("Run() second pass unexpected error: %v", err)
	}
	again, err := os.ReadFile(filepath.Join(dir, "out", "sample.final_results.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(final, again) {
		t.Error("re-running on identical input changed the report")
	}
}

func Test_Run_invalidOptions(t *testing.T) {
	err := Run(RunOptions{
		Vote:    Options{MinMapQ: -5, Weighting: WeightCount},
		PAFPath: "unused.paf",
	})
	if err == nil {
		t.Fatal("Run() expected a config error, got none")
	}
}

func Test_Run_emptyInput(t *testing.T) {
	dir := t.TempDir()

	paf := filepath.Join(dir, "empty.paf")
	if err := os.WriteFile(paf, nil, 0644); err != nil {
		t.Fatal(err)
	}

	run := RunOptions{
		Vote:      DefaultOptions(),
		PAFPath:   paf,
		OutPrefix: filepath.Join(dir, "empty"),
	}
	if err := Run(run); err != nil {
		t.Fatalf("Run() on empty input should warn, not fail: %v", err)
	}

	report, err := os.ReadFile(filepath.Join(dir, "empty.final_results.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "read_id\tfinal_category\tvote_score\trunner_up_score\tn_hits\n"; string(report) != want {
		t.Errorf("empty report = %q, want header only", report)
	}
}
