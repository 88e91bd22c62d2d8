package convert

import (
	"encoding/json"
	"strconv"
)

// Options control how pandoc renders the output document.
type Options struct {
	Standalone      bool     `json:"standalone"`
	TableOfContents bool     `json:"table_of_contents"`
	NumberSections  bool     `json:"number_sections"`
	Wrap            string   `json:"wrap"`
	Columns         int      `json:"columns"`
	PDFEngine       string   `json:"pdf_engine,omitempty"`
	ExtraArgs       []string `json:"extra_args"`
}

// DefaultOptions returns the option defaults: a standalone document with
// automatic wrapping at 80 columns.
func DefaultOptions() Options {
	return Options{
		Standalone: true,
		Wrap:       "auto",
		Columns:    80,
	}
}

// UnmarshalJSON starts from DefaultOptions, so a partial options object
// keeps the per-field defaults instead of zeroing standalone, wrap and
// columns.
func (o *Options) UnmarshalJSON(data []byte) error {
	type plain Options
	v := plain(DefaultOptions())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Options(v)
	return nil
}

// args builds the pandoc argument list for a conversion. inputFile and
// outputFile are empty for stdin/stdout conversions.
func (o Options) args(fromFormat, toFormat, inputFile, outputFile string) []string {
	args := []string{"-f", fromFormat, "-t", toFormat}

	if o.Standalone {
		args = append(args, "--standalone")
	}
	if o.TableOfContents {
		args = append(args, "--toc")
	}
	if o.NumberSections {
		args = append(args, "--number-sections")
	}
	if o.Wrap != "auto" && o.Wrap != "" {
		args = append(args, "--wrap", o.Wrap)
	}
	args = append(args, "--columns", strconv.Itoa(o.Columns))

	if o.PDFEngine != "" {
		args = append(args, "--pdf-engine", o.PDFEngine)
	}
	args = append(args, o.ExtraArgs...)

	if inputFile != "" {
		args = append(args, inputFile)
	}
	if outputFile != "" {
		args = append(args, "-o", outputFile)
	}

	return args
}
