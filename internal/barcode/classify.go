// Package barcode classifies reads or contigs into barcode categories by
// voting over their minimap2 alignments against a barcode reference.
package barcode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/shenwei356/xopen"
	log "github.com/sirupsen/logrus"
)

// RunOptions is one classify run in struct form.
type RunOptions struct {
	// filtering and scoring settings
	Vote Options

	// the minimap2 command; ignored when PAFPath is set
	Aligner AlignerOptions

	// classify an existing PAF stream instead of running minimap2;
	// "-" reads stdin
	PAFPath string

	// reads/contigs file; its record names form the report universe
	QueryPath string

	// output prefix; writes <prefix>.final_results.tsv
	OutPrefix string

	// per-query scoring goroutines; 0 means all CPUs
	Workers int

	// also write <prefix>.filtered_hits.tsv
	SaveHits bool

	// category counts table destination; nil disables the summary
	Summary io.Writer
}

// Run executes one classification: align (or read PAF), filter, vote,
// report. Zero alignment records is a warning, not an error; the report
// still gets its header.
func Run(ro RunOptions) error {
	if err := ro.Vote.Validate(); err != nil {
		return err
	}

	var (
		records []Record
		err     error
	)
	if ro.PAFPath != "" {
		records, err = ReadPAFPath(ro.PAFPath)
	} else {
		records, err = Align(ro.Aligner)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Warn("no alignment records in input; the report will be empty")
	}

	var universe []string
	if ro.QueryPath != "" {
		if universe, err = QueryNames(ro.QueryPath); err != nil {
			return err
		}
	}
	queries := mergeQueries(universe, records)

	results := ClassifyAll(ro.Vote, queries, records, ro.Workers)

	final := ro.OutPrefix + ".final_results.tsv"
	if err := writeFile(final, func(w io.Writer) error {
		return WriteReport(w, results)
	}); err != nil {
		return err
	}
	log.Infof("final results: %s", final)

	if ro.SaveHits {
		hits := ro.OutPrefix + ".filtered_hits.tsv"
		if err := writeFile(hits, func(w io.Writer) error {
			return WriteHits(w, ro.Vote, records)
		}); err != nil {
			return err
		}
		log.Infof("filtered hits: %s", hits)
	}

	kept := 0
	for i := range records {
		if ro.Vote.qualifies(&records[i]) {
			kept++
		}
	}
	log.Infof("paf_lines=%d kept_hits=%d queries=%d", len(records), kept, len(queries))

	if ro.Summary != nil {
		return WriteSummary(ro.Summary, results)
	}

	return nil
}

// ClassifyAll scores every query concurrently and returns results in the
// order of queries. Scoring is independent per query and each result lands
// in its input-order slot, so completion order never leaks into the report.
func ClassifyAll(opts Options, queries []string, records []Record, workers int) []Result {
	results := make([]Result, len(queries))
	if len(queries) == 0 {
		return results
	}

	byQuery := groupByQuery(records)

	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	jobs := make(chan int, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = opts.Classify(queries[i], byQuery[queries[i]])
			}
		}()
	}
	for i := range queries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// groupByQuery partitions records by query name.
func groupByQuery(records []Record) map[string][]Record {
	byQuery := make(map[string][]Record)
	for _, r := range records {
		byQuery[r.QName] = append(byQuery[r.QName], r)
	}
	return byQuery
}

// mergeQueries returns the report row order: the query universe first, in
// file order, then any PAF-only queries by first appearance. Duplicates
// are dropped.
func mergeQueries(universe []string, records []Record) []string {
	seen := make(map[string]struct{}, len(universe))
	queries := make([]string, 0, len(universe))

	add := func(q string) {
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	for _, q := range universe {
		add(q)
	}
	for i := range records {
		add(records[i].QName)
	}

	return queries
}

// writeFile fills path through fill; a .gz suffix compresses the output
// and "-" writes to stdout.
func writeFile(path string, fill func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %v", dir, err)
		}
	}

	w, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	if err := fill(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
