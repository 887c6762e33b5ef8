package star

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nihei9/star/config"
	"github.com/nihei9/star/errs"
	"github.com/nihei9/star/lineindex"
	"github.com/nihei9/star/parsetree"
	"github.com/nihei9/star/walker"
)

type collectingHandler struct {
	tags   []string
	values []string
}

func (h *collectingHandler) StartStream(string) bool                       { return false }
func (h *collectingHandler) EndStream(lineindex.Pos) bool                  { return false }
func (h *collectingHandler) StartGlobal(lineindex.Pos) bool                { return false }
func (h *collectingHandler) EndGlobal(lineindex.Pos) bool                  { return false }
func (h *collectingHandler) StartData(lineindex.Pos, string) bool          { return false }
func (h *collectingHandler) EndData(lineindex.Pos, string) bool            { return false }
func (h *collectingHandler) StartSaveFrame(lineindex.Pos, string) bool     { return false }
func (h *collectingHandler) EndSaveFrame(lineindex.Pos, string) bool       { return false }
func (h *collectingHandler) StartLoop(lineindex.Pos) bool                  { return false }
func (h *collectingHandler) EndLoop(lineindex.Pos) bool                    { return false }
func (h *collectingHandler) Comment(lineindex.Pos, string) bool            { return false }
func (h *collectingHandler) Data(tag string, _ lineindex.Pos, value string, _ lineindex.Pos, _ string, _ int) bool {
	h.tags = append(h.tags, tag)
	h.values = append(h.values, value)
	return false
}

func TestParseDefault_AndWalk(t *testing.T) {
	doc, err := ParseDefault([]byte("data_a\n_x 1\n_y 'two'\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := parsetree.Validate(doc.Tree.Root); err != nil {
		t.Fatalf("tree invariant violated: %v", err)
	}

	h := &collectingHandler{}
	if err := Walk(doc, h); err != nil {
		t.Fatalf("unexpected walk error: %v", err)
	}
	if len(h.tags) != 2 || h.tags[0] != "_x" || h.tags[1] != "_y" {
		t.Fatalf("tags = %v", h.tags)
	}
	if h.values[0] != "1" || h.values[1] != "two" {
		t.Fatalf("values = %v", h.values)
	}
}

func TestParseWith_DecomposeStrings(t *testing.T) {
	cfg := config.New(config.WithDecomposeStrings(true))
	doc, err := ParseWith([]byte("data_a\n_x 'hi'\n"), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value := doc.Tree.Root.Children[0].Children[1].Children[1]
	if len(value.Children) != 3 {
		t.Fatalf("expected an already-decomposed tree, got %d children on the value leaf", len(value.Children))
	}
}

func TestDecomposeStrings_Explicit(t *testing.T) {
	doc, err := ParseDefault([]byte("data_a\n_x 'hi'\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value := doc.Tree.Root.Children[0].Children[1].Children[1]
	if !value.IsLeaf() {
		t.Fatalf("value should start as a leaf before decomposition")
	}

	DecomposeStrings(doc)
	value = doc.Tree.Root.Children[0].Children[1].Children[1]
	if len(value.Children) != 3 {
		t.Fatalf("expected 3 children after DecomposeStrings, got %d", len(value.Children))
	}
}

func TestParseWith_UnexpectedKeyword(t *testing.T) {
	_, err := ParseWith([]byte("data_a\n_a.x _a.y\n"), config.Default())
	require.Error(t, err)

	var pe *errs.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, errs.UnexpectedKeyword, pe.Kind)
}

func TestWalkWithSource(t *testing.T) {
	text := []byte("data_a\n_x 1\n")
	doc, err := ParseDefault(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := &collectingHandler{}
	if err := WalkWithSource(doc, h, text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.tags) != 1 || h.tags[0] != "_x" {
		t.Fatalf("tags = %v", h.tags)
	}
}

var _ walker.ContentHandler = (*collectingHandler)(nil)
