package barcode

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// AlignerOptions is the minimap2 command line in struct form.
type AlignerOptions struct {
	Ref       string // path to the reference .mmi index
	Query     string // reads/contigs FASTA/FASTQ (.gz handled by minimap2)
	Preset    string // -x
	Threads   int    // -t
	MaxHits   int    // -N, max hits retained per query
	Secondary bool   // keep secondary alignments
}

// RequireExe fails when name is not on PATH.
func RequireExe(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%q not found in PATH: install it or load a module that provides it", name)
	}
	return nil
}

// args builds the minimap2 argument list.
func (a AlignerOptions) args() []string {
	args := []string{
		"-x", a.Preset,
		"-t", strconv.Itoa(a.Threads),
		"-N", strconv.Itoa(a.MaxHits),
	}
	if !a.Secondary {
		args = append(args, "--secondary=no")
	}
	return append(args, a.Ref, a.Query)
}

// Align runs minimap2 and parses its PAF stdout. A non-zero exit is fatal
// for the whole run, with minimap2's stderr attached to the error.
func Align(a AlignerOptions) ([]Record, error) {
	if err := RequireExe("minimap2"); err != nil {
		return nil, err
	}

	cmd := exec.Command("minimap2", a.args()...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	log.Infof("running: minimap2 %s", strings.Join(a.args(), " "))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start minimap2: %v", err)
	}

	records, perr := ReadPAF(stdout)
	if perr != nil {
		// parsing is already compromised, don't wait on the rest of the stream
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, perr
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("minimap2 failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return records, nil
}
