package config

import (
	"testing"

	"github.com/nihei9/star/charclass"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.EncodingMode != charclass.Unicode {
		t.Errorf("EncodingMode = %v, want Unicode", c.EncodingMode)
	}
	if c.BOMDetection || c.DecomposeStrings || c.PreserveComments {
		t.Errorf("Default() should have every bool option off: %+v", c)
	}
}

func TestNew_Options(t *testing.T) {
	c := New(
		WithEncoding(charclass.ASCII),
		WithBOMDetection(true),
		WithDecomposeStrings(true),
		WithPreserveComments(true),
		WithStreamName("stdin"),
	)
	if c.EncodingMode != charclass.ASCII {
		t.Errorf("EncodingMode = %v, want ASCII", c.EncodingMode)
	}
	if !c.BOMDetection || !c.DecomposeStrings || !c.PreserveComments {
		t.Errorf("options weren't applied: %+v", c)
	}
	if c.StreamName != "stdin" {
		t.Errorf("StreamName = %q, want stdin", c.StreamName)
	}
}
