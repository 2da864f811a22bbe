package barcode

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/tabwriter"
)

// formatScore renders a vote score without float noise: the count and
// matches weightings always produce whole numbers and print as integers.
func formatScore(s float64) string {
	if s == math.Trunc(s) {
		return strconv.FormatFloat(s, 'f', 0, 64)
	}
	return strconv.FormatFloat(s, 'f', 4, 64)
}

// WriteReport serializes one row per query, preserving the given order.
func WriteReport(w io.Writer, results []Result) error {
	if _, err := fmt.Fprintln(w, "read_id\tfinal_category\tvote_score\trunner_up_score\tn_hits"); err != nil {
		return err
	}
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			r.Query, r.Label, formatScore(r.Score), formatScore(r.RunnerUp), r.Hits)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteHits serializes every qualifying hit with its vote weight, in
// stream order.
func WriteHits(w io.Writer, opts Options, records []Record) error {
	if _, err := fmt.Fprintln(w, "read_id\ttarget_id\tscore"); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		if !opts.qualifies(r) {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.QName, r.TName, formatScore(opts.weight(r))); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints per-category assignment counts as an aligned table.
func WriteSummary(w io.Writer, results []Result) error {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Label]++
	}

	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "category\tcount\t\n")
	total := 0
	for _, l := range labels {
		fmt.Fprintf(tw, "%s\t%d\t\n", l, counts[l])
		total += counts[l]
	}
	fmt.Fprintf(tw, "total\t%d\t\n", total)

	return tw.Flush()
}
