package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary: strips a
// UTF-8 BOM if present, then applies Unicode NFC normalization, so
// lexically-equivalent source in different Unicode forms produces an
// identical token stream regardless of encoding (spec §4.1, §8 invariant 2).
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
