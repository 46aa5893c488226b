package extract

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText interprets raw bytes as text. A byte order mark selects
// UTF-16; everything else is read as UTF-8 with invalid sequences replaced.
func DecodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return strings.ToValidUTF8(string(out), "�")
}
