package report

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" with the
// first space as delimiter; CRLF line endings are
// accepted. Lines without a space or with an empty key are
// skipped. Later files override earlier ones, and each
// override is logged at debug level with both sources.
func LoadStamps(
	infoFiles []string,
) (map[string]interface{}, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]interface{})
	origin := make(map[string]string)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		sc := bufio.NewScanner(bytes.NewReader(content))
		sc.Buffer(nil, len(content)+1)

		for sc.Scan() {
			line := strings.TrimSuffix(sc.Text(), "\r")

			key, val, ok := strings.Cut(line, " ")
			if !ok || key == "" {
				continue
			}

			if prev, dup := origin[key]; dup && prev != sf {
				slog.Debug(
					"stamp overridden",
					"key", key,
					"from", prev,
					"by", sf,
				)
			}

			stamps[key] = val
			origin[key] = sf
		}

		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf(
				"%s: scanning %s: %w", errCtx, sf, err,
			)
		}
	}

	return stamps, nil
}
