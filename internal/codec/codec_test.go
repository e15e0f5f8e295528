package codec

import (
	"testing"

	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLatin1(t *testing.T) {
	got, err := DecodeLatin1(string([]rune{0x25, 0x50}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x25, 0x50}, got)
}

func TestDecodeLatin1_AllBytesRoundTrip(t *testing.T) {
	raw := make([]byte, 256)
	for i := range raw {
		raw[i] = byte(i)
	}

	got, err := DecodeLatin1(EncodeLatin1(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecodeLatin1_RejectsWideRunes(t *testing.T) {
	_, err := DecodeLatin1("%PDF€")
	assert.ErrorIs(t, err, customerrors.ErrNotLatin1)
	assert.ErrorContains(t, err, "U+20AC at offset 4")
}

func TestDecodeLatin1_RejectsInvalidUTF8(t *testing.T) {
	_, err := DecodeLatin1("%PDF\xff\xfe")
	assert.ErrorIs(t, err, customerrors.ErrNotLatin1)
}

func TestEncodeLatin1_HighBytes(t *testing.T) {
	got := EncodeLatin1([]byte{0x25, 0xE9, 0xFF})
	assert.Equal(t, "%\u00e9\u00ff", got)
	assert.Equal(t, []rune{0x25, 0xE9, 0xFF}, []rune(got))
}

func TestDecodeLatin1_Empty(t *testing.T) {
	got, err := DecodeLatin1("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename("2024-01-01T00:00", "2024-01-31T23:59", PDF)
	assert.Equal(t, "violations_2024-01-01T00:00_2024-01-31T23:59.pdf", name)
}

func TestParseFileType(t *testing.T) {
	ft, err := ParseFileType("DOCX")
	require.NoError(t, err)
	assert.Equal(t, DOCX, ft)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ft.MIMEType())

	_, err = ParseFileType("xlsx")
	assert.ErrorIs(t, err, customerrors.ErrUnsupportedFileType)
	assert.Equal(t, "application/pdf", PDF.MIMEType())
	assert.Equal(t, "application/octet-stream", FileType("zip").MIMEType())
}
