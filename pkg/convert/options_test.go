package convert

import (
	"encoding/json"
	"testing"
)

func TestOptionsUnmarshalPartialKeepsDefaults(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"table_of_contents":true}`), &opts); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if !opts.TableOfContents {
		t.Error("TableOfContents = false, want true")
	}
	if !opts.Standalone {
		t.Error("Standalone = false, want default true")
	}
	if opts.Wrap != "auto" {
		t.Errorf("Wrap = %q, want default auto", opts.Wrap)
	}
	if opts.Columns != 80 {
		t.Errorf("Columns = %d, want default 80", opts.Columns)
	}
}

func TestOptionsUnmarshalExplicitValuesWin(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"standalone":false,"columns":72}`), &opts); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if opts.Standalone {
		t.Error("Standalone = true, explicit false ignored")
	}
	if opts.Columns != 72 {
		t.Errorf("Columns = %d, want 72", opts.Columns)
	}
}
