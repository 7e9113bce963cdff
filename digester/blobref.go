package digester

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byte4ever/tinysha/sha256hex"
)

// BlobPrefix is the algorithm prefix of a blob reference.
const BlobPrefix = "sha256:"

// ErrInvalidBlobRef is returned when a blob reference is
// not of the form "sha256:<64 lowercase hex>".
var ErrInvalidBlobRef = errors.New("invalid blob reference")

// BlobRef returns the content address of data. Blob
// references always use the standard byte order.
func BlobRef(data []byte) string {
	return BlobPrefix + sha256hex.Sum(data)
}

// FileBlobRef returns the content address of the file at
// path.
func FileBlobRef(path string) (string, error) {
	const errCtx = "computing file blob reference"

	digest, err := CalculateDigest(path, sha256hex.BigEndian)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if digest == "" {
		return "", fmt.Errorf(
			"%s: %s does not exist", errCtx, path,
		)
	}

	return BlobPrefix + digest, nil
}

// ParseBlobRef validates ref and returns its hex digest.
func ParseBlobRef(ref string) (string, error) {
	const errCtx = "parsing blob reference"

	digest, found := strings.CutPrefix(ref, BlobPrefix)
	if !found {
		return "", fmt.Errorf(
			"%s: %w: missing %q prefix in %q",
			errCtx, ErrInvalidBlobRef, BlobPrefix, ref,
		)
	}

	if !sha256hex.IsDigest(digest) {
		return "", fmt.Errorf(
			"%s: %w: malformed digest %q",
			errCtx, ErrInvalidBlobRef, digest,
		)
	}

	return digest, nil
}
