package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Format is an output format for command results.
type Format string

const (
	// FormatText writes the one-line summary of values that have one.
	FormatText Format = "text"
	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
	// FormatYAML writes YAML.
	FormatYAML Format = "yaml"
	// FormatTable writes flattened field/value rows.
	FormatTable Format = "table"
)

const defaultValueKey = "value"

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the names of all output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatText),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat returns the format named s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format '%s', supported: %s", s, strings.Join(SupportedFormats(), ", ")),
			map[string]any{"format": s})
	}
	return f, nil
}

// Writer serializes values to an output in one format.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a Writer. A nil output means stdout.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: format, output: output}
}

// NewFileWriterOrStdout writes to path, or to stdout when path is empty or
// "-". Close releases the file.
func NewFileWriterOrStdout(format Format, path string) (*Writer, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return NewWriter(format, os.Stdout), nil
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
			map[string]any{"path": trimmed})
	}
	file, err := os.Create(trimmed)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create output file", err,
			map[string]any{"path": trimmed})
	}
	return &Writer{format: format, output: file, closer: file}, nil
}

// Close releases the output file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Serialize writes v in the configured format.
func (w *Writer) Serialize(_ context.Context, v any) error {
	switch w.format {
	case FormatText:
		return w.serializeText(v)
	case FormatJSON:
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	case FormatTable:
		return w.serializeTable(v)
	default:
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported format: %s", w.format))
	}
}

func (w *Writer) serializeText(v any) error {
	s, ok := v.(Summarizer)
	if !ok {
		return w.serializeTable(v)
	}
	if _, err := fmt.Fprintln(w.output, s.Summary()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write summary", err)
	}
	return nil
}

func (w *Writer) serializeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to serialize to JSON", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to serialize to YAML", err)
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to serialize to YAML", err)
	}
	return nil
}

func (w *Writer) serializeTable(v any) error {
	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		_, err := fmt.Fprintln(w.output, "<empty>")
		return err
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
	}
	return tw.Flush()
}

// flattenValue walks v into dotted keys named after the json tags, so table
// rows match the JSON field names. Empty fields tagged omitempty are skipped.
func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	// durations and times read better through String
	if s, ok := val.Interface().(fmt.Stringer); ok {
		out[keyOr(prefix)] = s.String()
		return
	}

	//nolint:exhaustive // common kinds handled explicitly, the rest are leaves
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name, omitEmpty, skip := jsonName(field)
			if skip || (omitEmpty && val.Field(i).IsZero()) {
				continue
			}
			flattenValue(out, val.Field(i), joinKey(prefix, name))
		}
	case reflect.Map:
		for _, mapKey := range val.MapKeys() {
			key := joinKey(prefix, fmt.Sprintf("%v", mapKey.Interface()))
			flattenValue(out, val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flattenValue(out, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		out[keyOr(prefix)] = val.Interface()
	}
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func keyOr(prefix string) string {
	if prefix == "" {
		return defaultValueKey
	}
	return prefix
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
