package charclass

import "testing"

func TestSet_InClass(t *testing.T) {
	tests := []struct {
		mode Mode
		r    rune
		want bool
	}{
		{ASCII, 'a', true},
		{ASCII, ' ', true},
		{ASCII, '\n', false}, // InClass doesn't admit newline; IsNewline does
		{ASCII, 0x80, false},
		{ExtendedASCII, 0x80, true},
		{ExtendedASCII, 0xff, true},
		{ExtendedASCII, 'a', true},
		{Unicode, '日', true},
		{Unicode, 'a', true},
	}
	for i, tt := range tests {
		s := New(tt.mode)
		if got := s.InClass(tt.r); got != tt.want {
			t.Errorf("#%d: %v.InClass(%q) = %v, want %v", i, tt.mode, tt.r, got, tt.want)
		}
	}
}

func TestSet_DecodeRune(t *testing.T) {
	s := New(ExtendedASCII)
	r, size := s.DecodeRune([]byte{0xe9}) // 'é' in Latin-1
	if size != 1 {
		t.Fatalf("size = %d, want 1", size)
	}
	if r != 0xe9 {
		t.Fatalf("r = %q, want %q", r, rune(0xe9))
	}

	u := New(Unicode)
	r, size = u.DecodeRune([]byte("日"))
	if size != 3 {
		t.Fatalf("size = %d, want 3", size)
	}
	if r != '日' {
		t.Fatalf("r = %q, want 日", r)
	}
}

func TestMode_ColumnUnit(t *testing.T) {
	if ASCII.ColumnUnit() {
		t.Error("ASCII.ColumnUnit() = true, want false")
	}
	if ExtendedASCII.ColumnUnit() {
		t.Error("ExtendedASCII.ColumnUnit() = true, want false")
	}
	if !Unicode.ColumnUnit() {
		t.Error("Unicode.ColumnUnit() = false, want true")
	}
}

func TestStripBOM(t *testing.T) {
	tests := []struct {
		name   string
		src    []byte
		wantN  int
		wantRM []byte
	}{
		{"utf8", []byte{0xEF, 0xBB, 0xBF, 'a'}, 3, []byte{'a'}},
		{"utf16le", []byte{0xFF, 0xFE, 'a'}, 2, []byte{'a'}},
		{"utf16be", []byte{0xFE, 0xFF, 'a'}, 2, []byte{'a'}},
		{"none", []byte{'a', 'b'}, 0, []byte{'a', 'b'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripped, n := StripBOM(tt.src)
			if n != tt.wantN {
				t.Errorf("n = %d, want %d", n, tt.wantN)
			}
			if string(stripped) != string(tt.wantRM) {
				t.Errorf("stripped = %q, want %q", stripped, tt.wantRM)
			}
		})
	}
}
