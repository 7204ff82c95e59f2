// Package fingerprint computes deterministic content fingerprints for media
// files. The fingerprint is a SHA-256 hash of the file bytes, hex-encoded,
// used to detect whether an item changed between registry scans.
package fingerprint

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Compute returns the hex-encoded SHA-256 digest of the file at path.
// The file is streamed; large media files are never loaded whole.
func Compute(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, bufio.NewReaderSize(file, 256*1024)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
