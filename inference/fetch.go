package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// EnsureArtifact makes sure the model artifact exists at path,
// downloading it from artifactURL when missing. A non-empty sha256hex is
// verified against the downloaded bytes before the file is kept.
func EnsureArtifact(ctx context.Context, path, artifactURL, sha256hex string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if artifactURL == "" {
		return fmt.Errorf("model artifact missing at %s and no download URL configured", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return err
	}

	httpc := &http.Client{Timeout: 60 * time.Second}
	resp, err := httpc.Do(req)
	if err != nil {
		return fmt.Errorf("model download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("model download read failed: %w", err)
	}

	if sha256hex != "" {
		sum := sha256.Sum256(data)
		if got := hex.EncodeToString(sum[:]); got != sha256hex {
			return fmt.Errorf("model checksum mismatch: got %s, want %s", got, sha256hex)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Write then rename so a partial download never lands at path.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
