package yax

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// decodeText converts Shift-JIS bytes to UTF-8. Malformed units become U+FFFD;
// decoding never fails as a whole.
func decodeText(b []byte) string {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}

	return string(out)
}

// encodeText converts UTF-8 text to Shift-JIS. Runes without a Shift-JIS mapping are
// replaced by the SUB control character.
//
// Characters with more than one code page 932 spelling (the NEC row 13 duplicates of
// JIS symbols such as 87 90 and 81 E0 for "≒") take the JIS X 0208 code. Values decoded
// from a tree keep their source bytes and bypass this function.
func encodeText(s string) ([]byte, error) {
	out, err := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()).Bytes([]byte(strings.ToValidUTF8(s, "�")))
	if err != nil {
		return nil, fmt.Errorf("encode text %q: %w", s, err)
	}

	return out, nil
}
