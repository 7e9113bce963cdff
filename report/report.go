package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/valyala/fasttemplate"
)

// DefaultLineFormat mirrors the sha256sum output layout.
const DefaultLineFormat = "{digest}  {name}"

// ErrUnknownFormat is returned by ParseFormat for names
// it does not recognize.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the report encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a name to a Format. An empty name
// yields FormatText.
func ParseFormat(s string) (Format, error) {
	const errCtx = "parsing format"

	switch fo := Format(strings.ToLower(strings.TrimSpace(s))); fo {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return fo, nil
	default:
		return "", fmt.Errorf(
			"%s: %w: %q", errCtx, ErrUnknownFormat, s,
		)
	}
}

// Record is one rendered digest.
type Record struct {
	Name      string `json:"name"       yaml:"name"`
	Digest    string `json:"digest"     yaml:"digest"`
	ByteOrder string `json:"byte_order" yaml:"byte_order"`
	Size      int64  `json:"size"       yaml:"size"`
}

// Writer renders records in the configured format.
type Writer struct {
	Format     Format
	LineFormat string
	Stamps     map[string]interface{}
}

// Write renders recs to out. A nil or empty slice writes
// nothing in text mode and an empty collection otherwise.
func (wr *Writer) Write(out io.Writer, recs []Record) error {
	const errCtx = "writing report"

	var err error

	switch wr.Format {
	case "", FormatText:
		err = wr.writeText(out, recs)
	case FormatJSON:
		err = writeJSON(out, recs)
	case FormatYAML:
		err = writeYAML(out, recs)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, wr.Format)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// writeText expands the line format once per record.
// Record fields override stamps of the same name.
// Unknown placeholders are preserved as-is.
func (wr *Writer) writeText(out io.Writer, recs []Record) error {
	lineFormat := wr.LineFormat
	if lineFormat == "" {
		lineFormat = DefaultLineFormat
	}

	tpl, err := fasttemplate.NewTemplate(lineFormat, "{", "}")
	if err != nil {
		return fmt.Errorf("parsing line format: %w", err)
	}

	for _, rec := range recs {
		vars := make(map[string]interface{}, len(wr.Stamps)+4)
		for key, val := range wr.Stamps {
			vars[key] = val
		}

		vars["digest"] = rec.Digest
		vars["name"] = rec.Name
		vars["byte_order"] = rec.ByteOrder
		vars["size"] = strconv.FormatInt(rec.Size, 10)

		line := tpl.ExecuteFuncString(
			func(w io.Writer, tag string) (int, error) {
				val, ok := vars[tag]
				if !ok {
					return w.Write([]byte("{" + tag + "}"))
				}

				return w.Write([]byte(fmt.Sprint(val)))
			},
		)

		if _, err := io.WriteString(out, line+"\n"); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	return nil
}

func writeJSON(out io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}

	buf, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}

	if _, err := out.Write(append(buf, '\n')); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}

	buf, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshaling yaml: %w", err)
	}

	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("writing yaml: %w", err)
	}

	return nil
}
