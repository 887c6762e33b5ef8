package charclass

import (
	"golang.org/x/text/encoding/unicode"
)

// StripBOM removes a leading UTF-8, UTF-16LE, or UTF-16BE byte-order mark
// from src when present, per spec.md §6. It reports the number of bytes
// removed. UTF-16 inputs are only recognized and stripped, never
// transcoded — the caller is responsible for handing Unicode-mode parsing
// already-transcoded UTF-8 text, per spec.md §6's explicit constraint.
//
// Detection follows the same three-way BOM sniff golang.org/x/text's
// unicode.BOMOverride performs for its encoding-detecting Transformer;
// this function only needs the sniff, not the transform, since this
// package never decodes UTF-16 itself.
func StripBOM(src []byte) (stripped []byte, n int) {
	switch {
	case len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF:
		return src[3:], 3
	case len(src) >= 2 && src[0] == 0xFF && src[1] == 0xFE:
		return src[2:], 2
	case len(src) >= 2 && src[0] == 0xFE && src[1] == 0xFF:
		return src[2:], 2
	default:
		return src, 0
	}
}

// bomPolicy names the x/text transformer whose three-way BOM sniff
// StripBOM mirrors: a UTF-8 BOM, then a UTF-16LE or UTF-16BE BOM.
var bomPolicy = unicode.BOMOverride
