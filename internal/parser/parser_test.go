package parser

import (
	"testing"

	"github.com/nihei9/star/config"
	"github.com/nihei9/star/errs"
	"github.com/nihei9/star/parsetree"
)

func mustParse(t *testing.T, src string) *parsetree.Tree {
	t.Helper()
	res, err := Parse([]byte(src), config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := parsetree.Validate(res.Tree.Root); err != nil {
		t.Fatalf("tree invariant violated: %v", err)
	}
	return res.Tree
}

// S1: simple value.
func TestParse_SimpleValue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 1\n")
	root := tree.Root
	if len(root.Children) != 1 || root.Children[0].Kind != parsetree.KindDataBlock {
		t.Fatalf("root children = %+v", root.Children)
	}
	block := root.Children[0]
	if len(block.Children) != 2 {
		t.Fatalf("data_block children = %+v", block.Children)
	}
	if block.Children[0].Kind != parsetree.KindDataHeading {
		t.Errorf("first child kind = %v, want data_heading", block.Children[0].Kind)
	}
	data := block.Children[1]
	if data.Kind != parsetree.KindData {
		t.Fatalf("second child kind = %v, want data", data.Kind)
	}
	if string(tree.Text(data.Children[0])) != "_x" {
		t.Errorf("tag text = %q, want _x", tree.Text(data.Children[0]))
	}
	if data.Children[1].Kind != parsetree.KindNonQuotedTextString {
		t.Errorf("value kind = %v, want non_quoted_text_string", data.Children[1].Kind)
	}
}

// S2: quoted value with doubled quote.
func TestParse_QuotedValue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 'it''s'\n")
	data := tree.Root.Children[0].Children[1]
	value := data.Children[1]
	if value.Kind != parsetree.KindSingleQuoteString {
		t.Fatalf("value kind = %v, want single_quote_string", value.Kind)
	}
	if got := string(tree.Text(value)); got != "'it''s'" {
		t.Errorf("value span text = %q, want 'it''s'", got)
	}
}

// S3: empty outer loop.
func TestParse_EmptyLoop(t *testing.T) {
	tree := mustParse(t, "data_p\nloop_\n _t1\n _t2\nstop_\n")
	block := tree.Root.Children[0]
	loop := block.Children[1]
	if loop.Kind != parsetree.KindDataLoop {
		t.Fatalf("kind = %v, want data_loop", loop.Kind)
	}
	def := loop.Children[0]
	if len(def.Children) != 2 {
		t.Fatalf("definition fields = %+v", def.Children)
	}
	values := loop.Children[1]
	if len(values.Children) != 1 || len(values.Children[0].Children) != 0 {
		t.Fatalf("values children = %+v, want exactly one bare stop_ marker", values.Children)
	}
}

// S4: nested loop with stops.
func TestParse_NestedLoop(t *testing.T) {
	src := "data_bonds\n" +
		"loop_ _mol_id _mol_name loop_ _bond_atom1 _bond_atom2 _bond_order stop_\n" +
		"MOL1 'Molecule One' C1 C2 single C2 C3 double stop_\n" +
		"MOL2 'Molecule Two' N1 N2 single stop_\n" +
		"stop_\n"
	tree := mustParse(t, src)
	loop := tree.Root.Children[0].Children[1]
	def := loop.Children[0]
	if len(def.Children) != 3 {
		t.Fatalf("outer fields = %+v", def.Children)
	}
	nestedField := def.Children[2].Children[0]
	if nestedField.Kind != parsetree.KindNestedLoop {
		t.Fatalf("third field kind = %v, want nested_loop", nestedField.Kind)
	}
	if len(nestedField.Children) != 3 {
		t.Fatalf("nested fields = %+v", nestedField.Children)
	}

	values := loop.Children[1]
	// MOL1, 'Molecule One', C1, C2, single, C2, C3, double, stop_(marker),
	// MOL2, 'Molecule Two', N1, N2, single, stop_(marker), stop_(marker, outer trailing).
	if len(values.Children) != 16 {
		t.Fatalf("got %d value items, want 16", len(values.Children))
	}
	markers := 0
	for _, item := range values.Children {
		if len(item.Children) == 0 {
			markers++
		}
	}
	if markers != 3 {
		t.Errorf("got %d stop_ markers, want 3", markers)
	}
}

// S5: unclosed string.
func TestParse_UnclosedString(t *testing.T) {
	_, err := Parse([]byte("data_a\n_x \"unclosed\n"), config.Default())
	pe, ok := err.(*errs.ParseError)
	if !ok {
		t.Fatalf("err = %v (%T), want *errs.ParseError", err, err)
	}
	if pe.Kind != errs.UnclosedString {
		t.Errorf("Kind = %v, want UnclosedString", pe.Kind)
	}
}

// S6: tag used instead of value.
func TestParse_TagUsedAsValue(t *testing.T) {
	_, err := Parse([]byte("data_a\n_a.x _a.y\n"), config.Default())
	pe, ok := err.(*errs.ParseError)
	if !ok {
		t.Fatalf("err = %v (%T), want *errs.ParseError", err, err)
	}
	if pe.Kind != errs.UnexpectedKeyword {
		t.Errorf("Kind = %v, want UnexpectedKeyword", pe.Kind)
	}
}

func TestParse_EmptyDataBlock(t *testing.T) {
	tree := mustParse(t, "data_empty\n")
	block := tree.Root.Children[0]
	if len(block.Children) != 1 {
		t.Fatalf("children = %+v, want just the heading", block.Children)
	}
}

func TestParse_SaveFrameWithLoop(t *testing.T) {
	src := "data_a\nsave_s1\n_x 1\nloop_ _y\nA\nB\nstop_\nsave_\n"
	tree := mustParse(t, src)
	block := tree.Root.Children[0]
	sf := block.Children[1]
	if sf.Kind != parsetree.KindSaveFrame {
		t.Fatalf("kind = %v, want save_frame", sf.Kind)
	}
	if len(sf.Children) != 3 { // save_heading, data, data_loop
		t.Fatalf("save_frame children = %+v", sf.Children)
	}
	if got := string(tree.Text(sf.Children[0]))[5:]; got != "s1" {
		t.Errorf("save frame name = %q, want s1", got)
	}
}

func TestParse_GlobalBlock(t *testing.T) {
	tree := mustParse(t, "global_\n_x 1\n")
	if tree.Root.Children[0].Kind != parsetree.KindGlobalBlock {
		t.Fatalf("kind = %v, want global_block", tree.Root.Children[0].Kind)
	}
}
