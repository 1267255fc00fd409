package extract_test

import (
	"testing"

	"docqa/extract"

	"github.com/stretchr/testify/assert"
)

func TestTextDecodesUTF8(t *testing.T) {
	text, err := extract.Text([]byte("termination clause: 30 days notice"))
	assert.NoError(t, err)
	assert.Equal(t, "termination clause: 30 days notice", text)
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	_, err := extract.Text([]byte{0xff, 0xfe, 0x41})
	assert.ErrorIs(t, err, extract.ErrDecode)
}

func TestTextAllowsEmptyBuffer(t *testing.T) {
	// blank output is the caller's failure, not the extractor's
	text, err := extract.Text(nil)
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestPDFRejectsGarbage(t *testing.T) {
	_, err := extract.PDF([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, extract.ErrCorruptDocument)
}

func TestPDFRejectsTruncatedHeader(t *testing.T) {
	_, err := extract.PDF([]byte("%PDF-1.7\ngarbage with no xref"))
	assert.ErrorIs(t, err, extract.ErrCorruptDocument)
}
