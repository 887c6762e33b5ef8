package parsetree

import "testing"

func TestValidate_OK(t *testing.T) {
	root := &Node{
		Kind: KindData,
		Span: Span{Begin: 0, End: 4},
		Children: []*Node{
			{Kind: KindDataName, Span: Span{Begin: 0, End: 2}},
			{Kind: KindNonQuotedTextString, Span: Span{Begin: 3, End: 4}},
		},
	}
	if err := Validate(root); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ChildEscapesParent(t *testing.T) {
	root := &Node{
		Kind: KindData,
		Span: Span{Begin: 0, End: 3},
		Children: []*Node{
			{Kind: KindDataName, Span: Span{Begin: 0, End: 5}}, // escapes parent's end
		},
	}
	if err := Validate(root); err == nil {
		t.Error("expected an error, got nil")
	}
}

func TestValidate_ParentDoesNotCoverChildren(t *testing.T) {
	root := &Node{
		Kind: KindData,
		Span: Span{Begin: 2, End: 4}, // doesn't cover child starting at 0
		Children: []*Node{
			{Kind: KindDataName, Span: Span{Begin: 0, End: 2}},
		},
	}
	if err := Validate(root); err == nil {
		t.Error("expected an error, got nil")
	}
}

func TestIsDataValue(t *testing.T) {
	tests := map[Kind]bool{
		KindNonQuotedTextString:        true,
		KindSingleQuoteString:          true,
		KindDoubleQuoteString:          true,
		KindSemiColonBoundedTextString: true,
		KindFrameCode:                  true,
		KindData:                       false,
		KindDataLoop:                   false,
	}
	for k, want := range tests {
		if got := k.IsDataValue(); got != want {
			t.Errorf("%v.IsDataValue() = %v, want %v", k, got, want)
		}
	}
}
