package barcode

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
)

// QueryNames reads every record name from a FASTA/FASTQ file (gzip is
// handled transparently), in file order. The names form the report
// universe, so queries minimap2 never aligned still get a row.
func QueryNames(path string) ([]string, error) {
	reader, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file %s: %v", path, err)
	}
	defer reader.Close()

	var names []string
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read query file %s: %v", path, err)
		}
		// the ID is the first whitespace-delimited token, same as the
		// query name minimap2 reports in PAF
		names = append(names, string(record.ID))
	}

	return names, nil
}
