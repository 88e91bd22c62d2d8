package convert

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"testing"

	"pandoc-hq/bridge/pkg/apierr"
)

// fakeEngine records invocations and serves canned responses without a
// pandoc binary.
type fakeEngine struct {
	lastArgs  []string
	lastStdin []byte

	output  []byte
	runErr  error
	formats map[string][]string
	version string

	// writeOutput, when set, writes output to the path following "-o"
	// to emulate a file conversion.
	writeOutput []byte
}

func (f *fakeEngine) Run(ctx context.Context, args []string, stdin []byte, fromFormat, toFormat string) ([]byte, error) {
	f.lastArgs = args
	f.lastStdin = stdin
	if f.runErr != nil {
		return nil, f.runErr
	}
	if f.writeOutput != nil {
		for i, a := range args {
			if a == "-o" && i+1 < len(args) {
				if err := os.WriteFile(args[i+1], f.writeOutput, 0o600); err != nil {
					return nil, err
				}
			}
		}
	}
	return f.output, nil
}

func (f *fakeEngine) ListFormats(ctx context.Context, direction string) ([]string, error) {
	if f.formats == nil {
		return nil, errors.New("engine unavailable")
	}
	return f.formats[direction], nil
}

func (f *fakeEngine) Version(ctx context.Context) string {
	if f.version == "" {
		return "not installed"
	}
	return f.version
}

func newTestService(engine *fakeEngine) *Service {
	return NewService(engine, NewRegistry(engine))
}

func TestConvertText(t *testing.T) {
	engine := &fakeEngine{output: []byte("<h1>Hi</h1>")}
	svc := newTestService(engine)

	result, err := svc.ConvertText(context.Background(), "# Hi", "markdown", "html", DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertText() error = %v", err)
	}

	if string(result.Content) != "<h1>Hi</h1>" {
		t.Errorf("Content = %q, want %q", result.Content, "<h1>Hi</h1>")
	}
	if result.ContentType != "text/html" {
		t.Errorf("ContentType = %q, want %q", result.ContentType, "text/html")
	}
	if result.IsBinary {
		t.Error("IsBinary = true, want false")
	}
	if string(engine.lastStdin) != "# Hi" {
		t.Errorf("stdin = %q, want %q", engine.lastStdin, "# Hi")
	}

	want := []string{"-f", "markdown", "-t", "html", "--standalone", "--columns", "80"}
	if strings.Join(engine.lastArgs, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", engine.lastArgs, want)
	}
}

func TestConvertTextOptionFlags(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "defaults",
			opts: DefaultOptions(),
			want: "-f markdown -t html --standalone --columns 80",
		},
		{
			name: "all toggles",
			opts: Options{Standalone: true, TableOfContents: true, NumberSections: true, Wrap: "none", Columns: 100},
			want: "-f markdown -t html --standalone --toc --number-sections --wrap none --columns 100",
		},
		{
			name: "no standalone",
			opts: Options{Wrap: "auto", Columns: 80},
			want: "-f markdown -t html --columns 80",
		},
		{
			name: "pdf engine passthrough",
			opts: Options{Standalone: true, Wrap: "auto", Columns: 80, PDFEngine: "xelatex"},
			want: "-f markdown -t html --standalone --columns 80 --pdf-engine xelatex",
		},
		{
			name: "extra args after flags",
			opts: Options{Standalone: true, Wrap: "auto", Columns: 80, ExtraArgs: []string{"--highlight-style", "tango"}},
			want: "-f markdown -t html --standalone --columns 80 --highlight-style tango",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{output: []byte("x")}
			svc := newTestService(engine)

			if _, err := svc.ConvertText(context.Background(), "x", "markdown", "html", tt.opts); err != nil {
				t.Fatalf("ConvertText() error = %v", err)
			}
			if got := strings.Join(engine.lastArgs, " "); got != tt.want {
				t.Errorf("args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertTextUnsupportedFormats(t *testing.T) {
	svc := newTestService(&fakeEngine{})

	tests := []struct {
		name           string
		from, to       string
		wantFormat     string
		wantFormatType string
	}{
		{name: "bad input", from: "clay-tablet", to: "html", wantFormat: "clay-tablet", wantFormatType: "input"},
		{name: "bad output", from: "markdown", to: "papyrus", wantFormat: "papyrus", wantFormatType: "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ConvertText(context.Background(), "x", tt.from, tt.to, DefaultOptions())
			var apiErr *apierr.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *apierr.Error", err)
			}
			if apiErr.Code != apierr.CodeFormatNotSupported {
				t.Errorf("code = %q, want %q", apiErr.Code, apierr.CodeFormatNotSupported)
			}
			if apiErr.Details["format"] != tt.wantFormat {
				t.Errorf("details.format = %v, want %q", apiErr.Details["format"], tt.wantFormat)
			}
			if apiErr.Details["format_type"] != tt.wantFormatType {
				t.Errorf("details.format_type = %v, want %q", apiErr.Details["format_type"], tt.wantFormatType)
			}
			supported, ok := apiErr.Details["supported_formats"].([]string)
			if !ok || len(supported) != 10 {
				t.Errorf("details.supported_formats = %v, want 10 entries", apiErr.Details["supported_formats"])
			}
		})
	}
}

func TestConvertTextCaseInsensitiveFormats(t *testing.T) {
	engine := &fakeEngine{output: []byte("x")}
	svc := newTestService(engine)

	if _, err := svc.ConvertText(context.Background(), "x", "Markdown", "HTML", DefaultOptions()); err != nil {
		t.Fatalf("ConvertText() error = %v", err)
	}
}

func TestConvertFile(t *testing.T) {
	engine := &fakeEngine{writeOutput: []byte("%PDF-1.7 fake")}
	svc := newTestService(engine)

	result, err := svc.ConvertFile(context.Background(), []byte("# Doc"), "doc.md", "pdf", "", DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}

	if result.FromFormat != "markdown" {
		t.Errorf("FromFormat = %q, want %q (detected from .md)", result.FromFormat, "markdown")
	}
	if !result.IsBinary {
		t.Error("IsBinary = false, want true for pdf")
	}
	if result.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", result.ContentType)
	}
	if string(result.Content) != "%PDF-1.7 fake" {
		t.Errorf("Content = %q", result.Content)
	}

	// Input path and -o output path are both in the argument list.
	joined := strings.Join(engine.lastArgs, " ")
	if !strings.Contains(joined, "doc.md") {
		t.Errorf("args missing input file: %v", engine.lastArgs)
	}
	if !strings.Contains(joined, "-o ") || !strings.Contains(joined, "output.pdf") {
		t.Errorf("args missing output file: %v", engine.lastArgs)
	}
	if engine.lastStdin != nil {
		t.Error("file conversion fed stdin, want file path")
	}
}

func TestConvertFileUnknownExtension(t *testing.T) {
	svc := newTestService(&fakeEngine{})

	_, err := svc.ConvertFile(context.Background(), []byte("x"), "doc.xyz", "html", "", DefaultOptions())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *apierr.Error", err)
	}
	if apiErr.Code != apierr.CodeFormatNotSupported {
		t.Errorf("code = %q, want %q", apiErr.Code, apierr.CodeFormatNotSupported)
	}
	if apiErr.Details["format"] != ".xyz" {
		t.Errorf("details.format = %v, want .xyz", apiErr.Details["format"])
	}
}

func TestConvertFileExplicitFormatSkipsDetection(t *testing.T) {
	engine := &fakeEngine{writeOutput: []byte("out")}
	svc := newTestService(engine)

	result, err := svc.ConvertFile(context.Background(), []byte("x"), "doc.xyz", "html", "markdown", DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if result.FromFormat != "markdown" {
		t.Errorf("FromFormat = %q, want markdown", result.FromFormat)
	}
}

func TestConvertFileMissingOutput(t *testing.T) {
	// Engine "succeeds" but never writes the output file.
	svc := newTestService(&fakeEngine{})

	_, err := svc.ConvertFile(context.Background(), []byte("x"), "doc.md", "pdf", "", DefaultOptions())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *apierr.Error", err)
	}
	if apiErr.Message != "Output file was not created" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestConvertFileBase64(t *testing.T) {
	engine := &fakeEngine{writeOutput: []byte("<p>hi</p>")}
	svc := newTestService(engine)

	encoded := base64.StdEncoding.EncodeToString([]byte("# hi"))
	result, err := svc.ConvertFileBase64(context.Background(), encoded, "doc.md", "html", "", DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFileBase64() error = %v", err)
	}
	if string(result.Content) != "<p>hi</p>" {
		t.Errorf("Content = %q", result.Content)
	}
}

func TestConvertFileBase64Invalid(t *testing.T) {
	svc := newTestService(&fakeEngine{})

	_, err := svc.ConvertFileBase64(context.Background(), "!!!not-base64!!!", "doc.md", "html", "", DefaultOptions())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *apierr.Error", err)
	}
	if apiErr.Code != apierr.CodeConversionFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, apierr.CodeConversionFailed)
	}
	if !strings.HasPrefix(apiErr.Message, "Invalid base64 encoding") {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestRegistryDiscovery(t *testing.T) {
	engine := &fakeEngine{formats: map[string][]string{
		"input":  {"markdown", "html"},
		"output": {"html", "pdf"},
	}}
	registry := NewRegistry(engine)

	formats := registry.Formats(context.Background())
	if len(formats.Input) != 2 || len(formats.Output) != 2 {
		t.Fatalf("Formats() = %+v, want discovered lists", formats)
	}

	if err := registry.ValidateInput(context.Background(), "markdown"); err != nil {
		t.Errorf("ValidateInput(markdown) = %v", err)
	}
	if err := registry.ValidateInput(context.Background(), "docx"); err == nil {
		t.Error("ValidateInput(docx) = nil, want error with narrowed catalog")
	}

	matrix := registry.Matrix(context.Background())
	if len(matrix) != 2 {
		t.Errorf("len(Matrix()) = %d, want 2", len(matrix))
	}
	if len(matrix["markdown"]) != 2 {
		t.Errorf("matrix[markdown] = %v, want both outputs", matrix["markdown"])
	}
}

func TestRegistryFallbackCatalog(t *testing.T) {
	// Engine that cannot list formats: built-in catalogs serve.
	registry := NewRegistry(&fakeEngine{})

	formats := registry.Formats(context.Background())
	if len(formats.Input) != len(defaultInputFormats) {
		t.Errorf("len(Input) = %d, want %d", len(formats.Input), len(defaultInputFormats))
	}
	if len(formats.Output) != len(defaultOutputFormats) {
		t.Errorf("len(Output) = %d, want %d", len(formats.Output), len(defaultOutputFormats))
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := ContentTypeOf("HTML"); got != "text/html" {
		t.Errorf("ContentTypeOf(HTML) = %q, want text/html", got)
	}
	if got := ContentTypeOf("mystery"); got != "application/octet-stream" {
		t.Errorf("ContentTypeOf(mystery) = %q, want application/octet-stream", got)
	}

	if !IsBinary("PDF") {
		t.Error("IsBinary(PDF) = false, want true")
	}
	if IsBinary("html") {
		t.Error("IsBinary(html) = true, want false")
	}

	if got := ExtensionFor("latex"); got != "tex" {
		t.Errorf("ExtensionFor(latex) = %q, want tex", got)
	}
	if got := ExtensionFor("zimwiki"); got != "zimwiki" {
		t.Errorf("ExtensionFor(zimwiki) = %q, want zimwiki", got)
	}

	format, err := DetectFormat("Notes.IPYNB")
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if format != "ipynb" {
		t.Errorf("DetectFormat(Notes.IPYNB) = %q, want ipynb", format)
	}
}

func TestResultEncodedContent(t *testing.T) {
	text := &Result{Content: []byte("plain"), IsBinary: false}
	if text.EncodedContent() != "plain" {
		t.Errorf("EncodedContent() = %q, want plain", text.EncodedContent())
	}

	binary := &Result{Content: []byte{0x01, 0x02}, IsBinary: true}
	if binary.EncodedContent() != base64.StdEncoding.EncodeToString([]byte{0x01, 0x02}) {
		t.Errorf("EncodedContent() = %q, want base64", binary.EncodedContent())
	}
}
