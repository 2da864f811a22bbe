package barcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Release defaults for the packaged barcode reference index.
const (
	DefaultRefURL    = "https://github.com/ypchan/barcode-vote-classifier/releases/download/v0.1.0/barcode_ref.mmi"
	DefaultRefSHA256 = "d97974d1e871875f449423ddf1b40ecab801df1e24c6f7e5f0af52dcc56e0087"
)

// SHA256File returns the hex digest of a file's contents.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidateSHA256 normalizes a digest and rejects anything that isn't
// exactly 64 hex characters.
func ValidateSHA256(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 64 {
		return "", fmt.Errorf("invalid sha256: expected 64 hex characters, got %d", len(s))
	}
	for _, ch := range s {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return "", fmt.Errorf("invalid sha256: %q is not a hex character", ch)
		}
	}
	return s, nil
}

// Download fetches url into dest and verifies the expected sha256. The
// payload lands in a .tmp sibling first, so a digest mismatch or a failed
// transfer leaves no partial file behind.
func Download(url, dest, expectedSHA256 string) error {
	want, err := ValidateSHA256(expectedSHA256)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	tmp := dest + ".tmp"

	log.Infof("downloading: %s", url)
	log.Infof("to: %s", dest)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %v", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	got, err := SHA256File(tmp)
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if got != want {
		os.Remove(tmp)
		return fmt.Errorf("sha256 mismatch: expected=%s got=%s", want, got)
	}

	return os.Rename(tmp, dest)
}
