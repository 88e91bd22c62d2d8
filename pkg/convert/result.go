package convert

import "encoding/base64"

// Result is the outcome of a successful conversion.
type Result struct {
	Content     []byte
	ContentType string
	IsBinary    bool
	FromFormat  string
	ToFormat    string
}

// EncodedContent returns the content as a JSON-safe string: base64 for
// binary formats, UTF-8 text otherwise.
func (r *Result) EncodedContent() string {
	if r.IsBinary {
		return base64.StdEncoding.EncodeToString(r.Content)
	}
	return string(r.Content)
}
