package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

type testPart struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	JVMServer string `json:"jvmserver,omitempty" yaml:"jvmserver,omitempty"`
}

type testResult struct {
	BundleID string         `json:"bundle_id" yaml:"bundle_id"`
	Parts    []testPart     `json:"parts" yaml:"parts"`
	Took     time.Duration  `json:"took" yaml:"took"`
	Labels   map[string]int `json:"labels,omitempty" yaml:"labels,omitempty"`
	Secret   string         `json:"-" yaml:"-"`
	Archive  *testPart      `json:"archive" yaml:"archive"`
}

func (r testResult) Summary() string {
	return "built " + r.BundleID
}

func sample() testResult {
	return testResult{
		BundleID: "payroll-1.0.0",
		Parts: []testPart{
			{Name: "web", Kind: "warbundle", JVMServer: "MYJVMS"},
			{Name: "prog", Kind: "osgibundle"},
		},
		Took:   1500 * time.Millisecond,
		Secret: "hunter2",
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatJSON, &buf).Serialize(context.Background(), sample()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["bundle_id"] != "payroll-1.0.0" {
		t.Errorf("bundle_id = %v", got["bundle_id"])
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Error("JSON output contains a field tagged json:\"-\"")
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatYAML, &buf).Serialize(context.Background(), sample()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got testResult
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(got.Parts) != 2 || got.Parts[1].Name != "prog" {
		t.Errorf("unexpected parts: %+v", got.Parts)
	}
}

func TestWriter_SerializeText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatText, &buf).Serialize(context.Background(), sample()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if got := buf.String(); got != "built payroll-1.0.0\n" {
		t.Errorf("text output = %q", got)
	}

	// values without a summary fall back to the table
	buf.Reset()
	if err := NewWriter(FormatText, &buf).Serialize(context.Background(), testPart{Name: "web"}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "FIELD") {
		t.Errorf("expected table fallback, got %q", buf.String())
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), sample()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"FIELD",
		"bundle_id",
		"parts.[0].name",
		"parts.[0].jvmserver",
		"parts.[1].kind",
		"1.5s",
		"archive",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"parts.[1].jvmserver", "labels", "hunter2", "Secret"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("table output contains %q:\n%s", unwanted, out)
		}
	}
}

func TestWriter_SerializeTable_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "empty struct", in: struct{}{}, want: "<empty>"},
		{name: "scalar", in: 42, want: "value"},
		{name: "map", in: map[string]string{"a": "b"}, want: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.in); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriter_UnsupportedFormat(t *testing.T) {
	err := NewWriter(Format("xml"), &bytes.Buffer{}).Serialize(context.Background(), sample())
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeInvalidRequest {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeInvalidRequest)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: " YAML ", want: FormatYAML},
		{in: "text", want: FormatText},
		{in: "table", want: FormatTable},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWriter_NilOutput(t *testing.T) {
	w := NewWriter(FormatJSON, nil)
	if w.output != os.Stdout {
		t.Error("nil output should default to stdout")
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	for _, path := range []string{"", "  ", "-"} {
		w, err := NewFileWriterOrStdout(FormatJSON, path)
		if err != nil {
			t.Fatalf("NewFileWriterOrStdout(%q) error = %v", path, err)
		}
		if w.output != os.Stdout {
			t.Errorf("NewFileWriterOrStdout(%q) should write to stdout", path)
		}
	}

	path := filepath.Join(t.TempDir(), "nested", "result.json")
	w, err := NewFileWriterOrStdout(FormatJSON, path)
	if err != nil {
		t.Fatalf("NewFileWriterOrStdout() error = %v", err)
	}
	if err := w.Serialize(context.Background(), sample()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "payroll-1.0.0") {
		t.Errorf("file content = %s", data)
	}
}

func TestNewFileWriterOrStdout_InvalidPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileWriterOrStdout(FormatJSON, filepath.Join(file, "out.json"))
	if code := errors.CodeOf(err); code != errors.ErrCodeIO {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeIO)
	}
}
