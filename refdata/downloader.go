package refdata

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/nicholasnlawson/dispensingpwa/logging"
	"golang.org/x/text/encoding/charmap"
)

// DecodeUTF8 returns the payload as UTF-8. Some published reference files
// are ISO-8859-1, so anything that is not already valid UTF-8 is transcoded.
func DecodeUTF8(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}

	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("ISO-8859-1 transcode failed: %w", err)
	}
	return decoded, nil
}

// Refresh downloads every reference file from the configured base URL into
// the data directory. A loader without a base URL refreshes nothing.
func (l *Loader) Refresh() error {
	if l.baseURL == "" {
		return nil
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	files := []string{MedicationsFile, FormulationsFile, WarningsFile, LabelsFile, ShorthandFile}
	for _, name := range files {
		if err := l.downloadFile(client, name); err != nil {
			// Optional tables may be absent upstream too
			if (name == FormulationsFile || name == ShorthandFile) && isNotFound(err) {
				logging.Info("Optional reference file not published", "file", name)
				continue
			}
			return fmt.Errorf("failed to refresh %s: %w", name, err)
		}
	}

	return nil
}

type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.status, e.url)
}

func isNotFound(err error) bool {
	statusErr, ok := err.(*httpStatusError)
	return ok && statusErr.status == http.StatusNotFound
}

// downloadFile fetches one reference file and writes it to the data
// directory as UTF-8
func (l *Loader) downloadFile(client *http.Client, name string) error {
	url := l.baseURL + "/" + name

	response, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return &httpStatusError{status: response.StatusCode, url: url}
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	decoded, err := DecodeUTF8(raw)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}

	if err := os.MkdirAll(l.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(l.dataDir, name)
	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info("Reference file refreshed", "file", name, "bytes", len(decoded))
	return nil
}
