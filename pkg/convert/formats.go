package convert

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"pandoc-hq/bridge/pkg/apierr"
)

// defaultInputFormats is the catalog served when the engine binary is not
// available for discovery. It tracks the readers of a stock pandoc build.
var defaultInputFormats = []string{
	"commonmark", "creole", "csv", "docbook", "docx", "epub", "fb2",
	"gfm", "haddock", "html", "ipynb", "jats", "json", "latex", "man",
	"markdown", "markdown_mmd", "markdown_phpextra", "markdown_strict",
	"mediawiki", "muse", "native", "odt", "opml", "org", "rst", "rtf",
	"t2t", "textile", "tikiwiki", "twiki", "vimwiki",
}

// defaultOutputFormats is the writer catalog counterpart.
var defaultOutputFormats = []string{
	"asciidoc", "beamer", "commonmark", "context", "docbook", "docx",
	"dokuwiki", "epub", "fb2", "gfm", "haddock", "html", "html5",
	"icml", "ipynb", "jats", "json", "latex", "man", "markdown",
	"markdown_mmd", "markdown_phpextra", "markdown_strict", "mediawiki",
	"ms", "muse", "native", "odt", "opendocument", "opml", "org",
	"pdf", "plain", "pptx", "rst", "rtf", "texinfo", "textile",
	"slideous", "slidy", "dzslides", "revealjs", "s5", "zimwiki",
}

// formatContentTypes maps output formats to response content types.
var formatContentTypes = map[string]string{
	"html":       "text/html",
	"html5":      "text/html",
	"latex":      "application/x-latex",
	"pdf":        "application/pdf",
	"docx":       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"odt":        "application/vnd.oasis.opendocument.text",
	"epub":       "application/epub+zip",
	"pptx":       "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"markdown":   "text/markdown",
	"gfm":        "text/markdown",
	"commonmark": "text/markdown",
	"plain":      "text/plain",
	"rst":        "text/x-rst",
	"asciidoc":   "text/asciidoc",
	"json":       "application/json",
	"native":     "application/json",
	"org":        "text/org",
	"rtf":        "application/rtf",
	"man":        "application/x-troff-man",
	"docbook":    "application/xml",
	"jats":       "application/xml",
	"opml":       "application/xml",
}

// binaryFormats are outputs that must be transported as bytes, not text.
var binaryFormats = map[string]bool{
	"pdf":  true,
	"docx": true,
	"odt":  true,
	"epub": true,
	"pptx": true,
}

// extToFormat maps file extensions to input formats for detection.
var extToFormat = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".html":     "html",
	".htm":      "html",
	".tex":      "latex",
	".latex":    "latex",
	".docx":     "docx",
	".odt":      "odt",
	".epub":     "epub",
	".rst":      "rst",
	".txt":      "plain",
	".json":     "json",
	".xml":      "docbook",
	".org":      "org",
	".rtf":      "rtf",
	".ipynb":    "ipynb",
}

// formatToExt maps output formats to output file extensions.
var formatToExt = map[string]string{
	"markdown":   "md",
	"gfm":        "md",
	"commonmark": "md",
	"html":       "html",
	"html5":      "html",
	"latex":      "tex",
	"pdf":        "pdf",
	"docx":       "docx",
	"odt":        "odt",
	"epub":       "epub",
	"pptx":       "pptx",
	"rst":        "rst",
	"plain":      "txt",
	"json":       "json",
	"native":     "hs",
	"org":        "org",
	"rtf":        "rtf",
	"asciidoc":   "adoc",
	"man":        "1",
}

// ContentTypeOf returns the response content type for an output format.
func ContentTypeOf(format string) string {
	if ct, ok := formatContentTypes[strings.ToLower(format)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsBinary reports whether an output format produces binary content.
func IsBinary(format string) bool {
	return binaryFormats[strings.ToLower(format)]
}

// DetectFormat derives the input format from a filename extension.
func DetectFormat(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := extToFormat[ext]
	if !ok {
		return "", apierr.NewFormatNotSupported(ext, "input (file extension)", nil)
	}
	return format, nil
}

// ExtensionFor returns the output file extension for a format. Unknown
// formats use the format name itself.
func ExtensionFor(format string) string {
	if ext, ok := formatToExt[strings.ToLower(format)]; ok {
		return ext
	}
	return format
}

// FormatList holds the supported reader and writer format names.
type FormatList struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// Registry answers which formats the engine supports. Discovery runs
// against the engine binary exactly once; if the binary is missing the
// built-in catalogs serve instead.
type Registry struct {
	engine Engine

	once   sync.Once
	input  []string
	output []string
}

// NewRegistry creates a registry backed by the given engine.
func NewRegistry(engine Engine) *Registry {
	return &Registry{engine: engine}
}

func (r *Registry) load(ctx context.Context) {
	r.once.Do(func() {
		r.input = defaultInputFormats
		r.output = defaultOutputFormats

		if input, err := r.engine.ListFormats(ctx, "input"); err == nil && len(input) > 0 {
			r.input = input
		}
		if output, err := r.engine.ListFormats(ctx, "output"); err == nil && len(output) > 0 {
			r.output = output
		}
	})
}

// Formats returns the supported format lists.
func (r *Registry) Formats(ctx context.Context) FormatList {
	r.load(ctx)
	return FormatList{Input: r.input, Output: r.output}
}

// Matrix returns the conversion compatibility matrix. Pandoc converts any
// reader to any writer, so every input maps to the full output list.
func (r *Registry) Matrix(ctx context.Context) map[string][]string {
	formats := r.Formats(ctx)
	matrix := make(map[string][]string, len(formats.Input))
	for _, in := range formats.Input {
		matrix[in] = formats.Output
	}
	return matrix
}

// ValidateInput returns a FORMAT_NOT_SUPPORTED error unless format is a
// supported reader. The error lists a sample of supported formats.
func (r *Registry) ValidateInput(ctx context.Context, format string) error {
	r.load(ctx)
	if contains(r.input, strings.ToLower(format)) {
		return nil
	}
	return apierr.NewFormatNotSupported(format, "input", sample(r.input, 10))
}

// ValidateOutput is the writer-side counterpart of ValidateInput.
func (r *Registry) ValidateOutput(ctx context.Context, format string) error {
	r.load(ctx)
	if contains(r.output, strings.ToLower(format)) {
		return nil
	}
	return apierr.NewFormatNotSupported(format, "output", sample(r.output, 10))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sample(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
