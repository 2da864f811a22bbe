package barcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// Record is one alignment row from minimap2's PAF output. Only the twelve
// mandatory columns are kept; optional SAM-like tags are ignored.
type Record struct {
	QName   string
	QLen    int
	QStart  int
	QEnd    int
	Strand  byte
	TName   string
	TLen    int
	TStart  int
	TEnd    int
	Matches int // residue matches in the alignment block
	AlnLen  int // alignment block length
	MapQ    int
}

// Identity is the fraction of matching bases in the alignment block.
func (r *Record) Identity() float64 {
	if r.AlnLen <= 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.AlnLen)
}

// Coverage is the fraction of the target covered by the alignment block.
func (r *Record) Coverage() float64 {
	if r.TLen <= 0 {
		return 0
	}
	return float64(r.AlnLen) / float64(r.TLen)
}

// ParseError is a malformed PAF line. The first one aborts the run, since
// grouping downstream can't be trusted once the stream is compromised.
type ParseError struct {
	Line int    // 1-based line number in the stream
	Raw  string // offending line as read
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("paf: line %d: %s: %q", e.Line, e.Msg, e.Raw)
}

// pafColumns is the mandatory column count of the PAF format.
const pafColumns = 12

// parsePAFLine splits one tab-separated PAF line into a Record.
func parsePAFLine(line string, num int) (Record, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < pafColumns {
		return Record{}, &ParseError{
			Line: num,
			Raw:  line,
			Msg:  fmt.Sprintf("expected at least %d columns, found %d", pafColumns, len(cols)),
		}
	}

	rec := Record{QName: cols[0], TName: cols[5]}
	for _, f := range []struct {
		col  int
		name string
		dst  *int
	}{
		{1, "query length", &rec.QLen},
		{2, "query start", &rec.QStart},
		{3, "query end", &rec.QEnd},
		{6, "target length", &rec.TLen},
		{7, "target start", &rec.TStart},
		{8, "target end", &rec.TEnd},
		{9, "matching bases", &rec.Matches},
		{10, "alignment length", &rec.AlnLen},
		{11, "mapping quality", &rec.MapQ},
	} {
		v, err := strconv.Atoi(cols[f.col])
		if err != nil {
			return Record{}, &ParseError{Line: num, Raw: line, Msg: "non-numeric " + f.name}
		}
		if v < 0 {
			return Record{}, &ParseError{Line: num, Raw: line, Msg: "negative " + f.name}
		}
		*f.dst = v
	}

	switch cols[4] {
	case "+", "-":
		rec.Strand = cols[4][0]
	default:
		return Record{}, &ParseError{Line: num, Raw: line, Msg: "strand must be + or -"}
	}

	if rec.QStart > rec.QEnd {
		return Record{}, &ParseError{Line: num, Raw: line, Msg: "query start after query end"}
	}
	if rec.TStart > rec.TEnd {
		return Record{}, &ParseError{Line: num, Raw: line, Msg: "target start after target end"}
	}

	return rec, nil
}

// ReadPAF reads every record from r, stopping at the first malformed line.
// Blank lines are skipped but still counted for error reporting.
func ReadPAF(r io.Reader) ([]Record, error) {
	var records []Record

	sc := bufio.NewScanner(r)
	// PAF lines carrying cg/cs tags run far past the default token size
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for num := 1; sc.Scan(); num++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := parsePAFLine(line, num)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PAF stream: %v", err)
	}

	return records, nil
}

// ReadPAFPath reads a PAF file; "-" reads stdin and .gz files are
// decompressed transparently. An empty input yields zero records, since a
// query set with no hits at all is a legitimate (if suspicious) outcome.
func ReadPAFPath(path string) ([]Record, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		if err == xopen.ErrNoContent {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open PAF input %s: %v", path, err)
	}
	defer r.Close()

	return ReadPAF(r)
}
