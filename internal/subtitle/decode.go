package subtitle

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf16LEBOM = []byte{0xff, 0xfe}
	utf16BEBOM = []byte{0xfe, 0xff}
)

// DecodeText turns raw file bytes into text on a best-effort basis.
// UTF-16 input is recognised by its byte order mark; everything else is
// treated as UTF-8 with invalid byte sequences dropped. A UTF-8 BOM is
// left in place for the parser to strip.
func DecodeText(data []byte) string {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err == nil {
			data = decoded
		}
	}
	return strings.ToValidUTF8(string(data), "")
}
