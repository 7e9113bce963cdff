// Package main provides the checksum annotator CLI that
// reads multi-document YAML, stamps ConfigMaps, Secrets and
// the workloads using them with SHA-256 checksums, and
// writes the result.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/tinysha/manifest"
	"github.com/byte4ever/tinysha/sha256hex"
)

func run() error {
	const errCtx = "annotating manifests"

	var (
		inFile    string
		outFile   string
		byteOrder string
	)

	flag.StringVar(
		&inFile, "infile", "",
		"input YAML file path",
	)

	flag.StringVar(
		&outFile, "outfile", "",
		"output YAML file path",
	)

	flag.StringVar(
		&byteOrder, "byte_order", "big-endian",
		"digest byte order: big-endian or word-swapped",
	)

	flag.Parse()

	order, err := sha256hex.ParseByteOrder(byteOrder)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	inReader := os.Stdin

	if inFile != "" {
		fi, err := os.Open(inFile) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf(
				"%s: opening input: %w",
				errCtx, err,
			)
		}

		defer fi.Close() //nolint:errcheck // best-effort close

		inReader = fi
	}

	outWriter := os.Stdout

	if outFile != "" {
		fo, err := os.Create(outFile) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf(
				"%s: creating output: %w",
				errCtx, err,
			)
		}

		defer fo.Close() //nolint:errcheck // best-effort close

		outWriter = fo
	}

	if err := manifest.AnnotateChecksums(
		inReader, outWriter, order,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
