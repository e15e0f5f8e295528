// Package codec handles the report payload exchanged with the export endpoint.
//
// The backend ships file bytes inside a JSON string where every character's
// code point is one raw byte (0-255).
package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	customerrors "github.com/axellelanca/itrules/internal/errors"
	"golang.org/x/text/encoding/charmap"
)

// FileType is a report format the backend can render.
type FileType string

const (
	PDF  FileType = "pdf"
	DOCX FileType = "docx"
)

// FileTypes lists the supported formats in display order.
var FileTypes = []FileType{PDF, DOCX}

var mimeTypes = map[FileType]string{
	PDF:  "application/pdf",
	DOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ParseFileType validates s against the closed set of formats.
func ParseFileType(s string) (FileType, error) {
	t := FileType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := mimeTypes[t]; !ok {
		return "", fmt.Errorf("%w: %q", customerrors.ErrUnsupportedFileType, s)
	}
	return t, nil
}

// MIMEType returns the content type for t, or application/octet-stream.
func (t FileType) MIMEType() string {
	if m, ok := mimeTypes[t]; ok {
		return m
	}
	return "application/octet-stream"
}

// ExportFilename builds violations_<from>_<to>.<type> from the raw,
// user-facing field values.
func ExportFilename(fromRaw, toRaw string, t FileType) string {
	return fmt.Sprintf("violations_%s_%s.%s", fromRaw, toRaw, t)
}

// DecodeLatin1 maps each code point of s to a single byte.
func DecodeLatin1(s string) ([]byte, error) {
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		if i := strings.IndexFunc(s, func(r rune) bool { return r > 0xFF }); i >= 0 {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, fmt.Errorf("%w: code point U+%04X at offset %d", customerrors.ErrNotLatin1, r, i)
		}
		return nil, fmt.Errorf("%w: %v", customerrors.ErrNotLatin1, err)
	}
	return out, nil
}

// EncodeLatin1 is the inverse of DecodeLatin1.
func EncodeLatin1(b []byte) string {
	// ISO-8859-1 assigns every byte, so decoding cannot fail.
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}
