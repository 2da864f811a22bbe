package barcode

import (
	"fmt"
	"sort"
	"strings"
)

// Weightings select how much one qualifying alignment contributes to its
// category's vote.
const (
	// WeightMatches scores each hit by its matching-base count.
	WeightMatches = "matches"

	// WeightCount scores each hit as a single vote.
	WeightCount = "count"

	// WeightIdentity scores each hit by identity x mapping quality, to
	// penalize short or low-confidence alignments.
	WeightIdentity = "identity-weighted"
)

// Labels reserved for queries the vote cannot place.
const (
	// LabelAmbiguous marks queries whose top categories tie on score.
	LabelAmbiguous = "ambiguous"

	// LabelUnclassified marks queries with no qualifying hits at all.
	LabelUnclassified = "unclassified"
)

// Options control the filtering and scoring of alignment records.
type Options struct {
	// keep hits with mapq >= MinMapQ
	MinMapQ int

	// keep hits with matches/alnlen > MinIdentity
	MinIdentity float64

	// keep hits with alnlen/tlen > MinCoverage
	MinCoverage float64

	// WeightMatches, WeightCount or WeightIdentity
	Weighting string

	// separator between category and accession in target names
	Sep string
}

// ConfigError is an invalid Options value, caught before any records are
// processed.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// DefaultOptions mirrors the defaults of the classify command.
func DefaultOptions() Options {
	return Options{
		MinMapQ:     0,
		MinIdentity: 0.5,
		MinCoverage: 0.5,
		Weighting:   WeightMatches,
		Sep:         "|",
	}
}

// Validate rejects threshold values outside their domains.
func (o Options) Validate() error {
	if o.MinMapQ < 0 {
		return &ConfigError{Field: "min-mapq", Msg: "must be >= 0"}
	}
	if o.MinIdentity < 0 || o.MinIdentity > 1 {
		return &ConfigError{Field: "id-thr", Msg: "must be in [0,1]"}
	}
	if o.MinCoverage < 0 || o.MinCoverage > 1 {
		return &ConfigError{Field: "cov-thr", Msg: "must be in [0,1]"}
	}
	switch o.Weighting {
	case WeightMatches, WeightCount, WeightIdentity:
	default:
		return &ConfigError{
			Field: "weighting",
			Msg: fmt.Sprintf("unknown scheme %q, want %s, %s or %s",
				o.Weighting, WeightMatches, WeightCount, WeightIdentity),
		}
	}
	return nil
}

// Category extracts the major category prefix from a target name.
// "Bacteria|ACC001" with Sep "|" votes as "Bacteria". A name without the
// separator votes under its full name.
func (o Options) Category(tname string) string {
	if o.Sep == "" {
		return tname
	}
	if i := strings.Index(tname, o.Sep); i >= 0 {
		return tname[:i]
	}
	return tname
}

// qualifies reports whether a record passes every filter. Failing records
// are dropped entirely so they can't influence tie-breaking.
func (o Options) qualifies(r *Record) bool {
	if r.AlnLen <= 0 || r.TLen <= 0 {
		return false
	}
	if r.MapQ < o.MinMapQ {
		return false
	}
	return r.Identity() > o.MinIdentity && r.Coverage() > o.MinCoverage
}

// weight is the vote contribution of one qualifying record.
func (o Options) weight(r *Record) float64 {
	switch o.Weighting {
	case WeightCount:
		return 1
	case WeightIdentity:
		return r.Identity() * float64(r.MapQ)
	default:
		return float64(r.Matches)
	}
}

// Result is the classification decision for one query.
type Result struct {
	Query    string
	Label    string  // winning category, LabelAmbiguous or LabelUnclassified
	Score    float64 // winning vote score
	RunnerUp float64 // second-best score, for margin inspection
	Hits     int     // qualifying records that voted
}

// Classify tallies one query's alignment records and decides its label.
// The outcome depends only on the record set, never its order: a strict
// maximum wins, a tie at the top is ambiguous and no qualifying evidence
// is unclassified.
func (o Options) Classify(query string, records []Record) Result {
	tally := make(map[string]float64)
	hits := 0
	for i := range records {
		r := &records[i]
		if r.QName != query || !o.qualifies(r) {
			continue
		}
		hits++
		tally[o.Category(r.TName)] += o.weight(r)
	}

	res := Result{Query: query, Label: LabelUnclassified, Hits: hits}
	if len(tally) == 0 {
		return res
	}

	type catScore struct {
		cat   string
		score float64
	}
	scores := make([]catScore, 0, len(tally))
	for cat, s := range tally {
		scores = append(scores, catScore{cat, s})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].cat < scores[j].cat
	})

	res.Score = scores[0].score
	if len(scores) > 1 {
		res.RunnerUp = scores[1].score
	}
	if len(scores) > 1 && scores[1].score == scores[0].score {
		res.Label = LabelAmbiguous
		return res
	}

	res.Label = scores[0].cat
	return res
}
