package digester

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/tinysha/sha256hex"
)

const sidecarExt = ".digest"

// CalculateDigest computes the hex digest of the file at
// path in the given byte order. Returns empty string with
// no error if the file does not exist.
func CalculateDigest(
	path string,
	order sha256hex.ByteOrder,
) (string, error) {
	const errCtx = "calculating digest"

	content, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"hashing file",
		"path", path,
		"size", len(content),
		"order", order.String(),
	)

	return sha256hex.SumOrder(content, order), nil
}

// SidecarPath returns the path of the .digest file that
// belongs to path.
func SidecarPath(path string) string {
	return path + sidecarExt
}

// GetDigest reads a stored digest from a sidecar .digest
// file. Returns empty string with no error if the sidecar
// file does not exist.
func GetDigest(path string) (string, error) {
	const errCtx = "getting stored digest"

	digest, err := os.ReadFile(SidecarPath(path)) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return strings.TrimSpace(string(digest)), nil
}

// VerifyDigest compares the calculated digest of the file
// against its stored sidecar digest. A missing file or a
// missing sidecar never verifies.
func VerifyDigest(
	path string,
	order sha256hex.ByteOrder,
) (bool, error) {
	const errCtx = "verifying digest"

	calc, err := CalculateDigest(path, order)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	stored, err := GetDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if calc == "" || stored == "" {
		return false, nil
	}

	return calc == stored, nil
}

// ErrInvalidDigest is returned by WriteDigest when the
// digest is not 64 lowercase hex characters.
var ErrInvalidDigest = errors.New("invalid digest")

// WriteDigest stores an already computed digest in the
// .digest sidecar of path.
func WriteDigest(path string, digest string) error {
	const errCtx = "writing digest"

	if !sha256hex.IsDigest(digest) {
		return fmt.Errorf(
			"%s: %w: %q", errCtx, ErrInvalidDigest, digest,
		)
	}

	if err := os.WriteFile(
		SidecarPath(path), []byte(digest), 0o600,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// SaveDigest calculates the digest of a file and writes it
// to a .digest sidecar file. It returns the digest.
func SaveDigest(
	path string,
	order sha256hex.ByteOrder,
) (string, error) {
	const errCtx = "saving digest"

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	digest, err := CalculateDigest(path, order)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := WriteDigest(path, digest); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return digest, nil
}
