// Command sha256hex prints SHA-256 digests of files, stdin or
// a literal string. Digests can be rendered in standard or
// word-swapped byte order, stored in and verified against
// .digest sidecar files, and reported as text, JSON or YAML.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/tinysha/digester"
	"github.com/byte4ever/tinysha/report"
	"github.com/byte4ever/tinysha/sha256hex"
)

const stdinName = "-"

var errVerifyFailed = errors.New("digest verification failed")

// sliceFlag implements flag.Value for multi-value
// string flags (repeated --flag=val usage).
type sliceFlag []string

// String returns the flag value as a comma-separated
// string representation.
func (s *sliceFlag) String() string {
	if s == nil {
		return ""
	}

	return strings.Join(*s, ",")
}

// Set appends a value to the slice.
func (s *sliceFlag) Set(val string) error {
	*s = append(*s, val)

	return nil
}

// fileConfig is the optional YAML configuration. Its
// values apply only to flags not given on the command
// line.
type fileConfig struct {
	ByteOrder      string   `yaml:"byte_order"`
	Format         string   `yaml:"format"`
	LineFormat     string   `yaml:"line_format"`
	StampInfoFiles []string `yaml:"stamp_info_files"`
}

type options struct {
	byteOrder  string
	format     string
	lineFormat string
	stamps     sliceFlag
	literal    string
	useLiteral bool
	save       bool
	verify     bool
	blob       bool
	verbose    bool
	configPath string
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running sha256hex"

	var opts options

	flag.StringVar(
		&opts.byteOrder, "byte_order", "big-endian",
		"Digest byte order: big-endian or word-swapped",
	)
	flag.StringVar(
		&opts.format, "format", "text",
		"Output format: text, json or yaml",
	)
	flag.StringVar(
		&opts.lineFormat, "line_format", report.DefaultLineFormat,
		"Text line format with {digest} {name} {size} {byte_order} and stamp variables",
	)
	flag.Var(
		&opts.stamps, "stamp_info_file",
		"Workspace status file path (repeatable)",
	)
	flag.StringVar(
		&opts.literal, "string", "",
		"Hash this literal string instead of files",
	)
	flag.BoolVar(
		&opts.save, "save", false,
		"Write a .digest sidecar next to each file",
	)
	flag.BoolVar(
		&opts.verify, "verify", false,
		"Verify each file against its .digest sidecar",
	)
	flag.BoolVar(
		&opts.blob, "blob", false,
		"Render digests as sha256:<hex> blob references",
	)
	flag.BoolVar(
		&opts.verbose, "v", false,
		"Enable debug logging",
	)
	flag.StringVar(
		&opts.configPath, "config", "",
		"Optional YAML configuration file",
	)

	flag.Parse()

	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "string" {
			opts.useLiteral = true
		}
	})

	if opts.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := applyConfig(&opts); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	order, err := sha256hex.ParseByteOrder(opts.byteOrder)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if opts.blob && order != sha256hex.BigEndian {
		return fmt.Errorf(
			"%s: blob references require big-endian order",
			errCtx,
		)
	}

	if opts.verify {
		return verifyFiles(flag.Args(), order)
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	stamps, err := report.LoadStamps(opts.stamps)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	recs, err := collect(&opts, flag.Args(), order)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	wr := report.Writer{
		Format:     format,
		LineFormat: opts.lineFormat,
		Stamps:     stamps,
	}

	if err := wr.Write(os.Stdout, recs); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// applyConfig loads the YAML config and copies its values
// into opts for every flag left unset on the command line.
func applyConfig(opts *options) error {
	const errCtx = "applying config"

	if opts.configPath == "" {
		return nil
	}

	raw, err := os.ReadFile(opts.configPath) //nolint:gosec // path from CLI flag
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if !set["byte_order"] && cfg.ByteOrder != "" {
		opts.byteOrder = cfg.ByteOrder
	}

	if !set["format"] && cfg.Format != "" {
		opts.format = cfg.Format
	}

	if !set["line_format"] && cfg.LineFormat != "" {
		opts.lineFormat = cfg.LineFormat
	}

	if !set["stamp_info_file"] {
		opts.stamps = cfg.StampInfoFiles
	}

	slog.Debug("loaded config", "path", opts.configPath)

	return nil
}

// collect hashes the literal string, stdin, or each named
// file and returns one record per input.
func collect(
	opts *options,
	paths []string,
	order sha256hex.ByteOrder,
) ([]report.Record, error) {
	if opts.useLiteral {
		return []report.Record{
			newRecord(
				opts, "",
				sha256hex.SumOrder([]byte(opts.literal), order),
				len(opts.literal), order,
			),
		}, nil
	}

	if len(paths) == 0 {
		paths = []string{stdinName}
	}

	recs := make([]report.Record, 0, len(paths))

	for _, pa := range paths {
		rec, err := hashPath(opts, pa, order)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

func hashPath(
	opts *options,
	path string,
	order sha256hex.ByteOrder,
) (report.Record, error) {
	const errCtx = "hashing input"

	if path == stdinName {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return report.Record{}, fmt.Errorf(
				"%s: reading stdin: %w", errCtx, err,
			)
		}

		return newRecord(
			opts, stdinName,
			sha256hex.SumOrder(content, order),
			len(content), order,
		), nil
	}

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI args
	if err != nil {
		return report.Record{}, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	// The sidecar records the bytes hashed here.
	digest := sha256hex.SumOrder(content, order)
	rec := newRecord(opts, path, digest, len(content), order)

	if opts.save {
		if err := digester.WriteDigest(path, digest); err != nil {
			return report.Record{}, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		slog.Info("saved digest", "path", digester.SidecarPath(path))
	}

	return rec, nil
}

func newRecord(
	opts *options,
	name string,
	digest string,
	size int,
	order sha256hex.ByteOrder,
) report.Record {
	if opts.blob {
		digest = digester.BlobPrefix + digest
	}

	return report.Record{
		Name:      name,
		Digest:    digest,
		ByteOrder: order.String(),
		Size:      int64(size),
	}
}

// verifyFiles checks every path against its sidecar and
// reports each result. It fails if any path does not
// verify.
func verifyFiles(
	paths []string,
	order sha256hex.ByteOrder,
) error {
	const errCtx = "verifying files"

	if len(paths) == 0 {
		return fmt.Errorf("%s: no files given", errCtx)
	}

	failed := 0

	for _, pa := range paths {
		ok, err := digester.VerifyDigest(pa, order)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if ok {
			fmt.Fprintf(os.Stdout, "%s: OK\n", pa)
			continue
		}

		failed++

		fmt.Fprintf(os.Stdout, "%s: FAILED\n", pa)
	}

	if failed > 0 {
		return fmt.Errorf(
			"%s: %w: %d of %d",
			errCtx, errVerifyFailed, failed, len(paths),
		)
	}

	return nil
}
