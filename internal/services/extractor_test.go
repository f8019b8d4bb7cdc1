package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextEmptyInput(t *testing.T) {
	extractor := NewPDFExtractor()

	text, err := extractor.ExtractText(nil)
	assert.Error(t, err)
	assert.Empty(t, text)

	text, err = extractor.ExtractText([]byte{})
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestExtractTextRejectsNonPDFBytes(t *testing.T) {
	extractor := NewPDFExtractor()

	inputs := [][]byte{
		[]byte("plain text file"),
		[]byte("<html><body>not a pdf</body></html>"),
		{0x00, 0x01, 0x02, 0x03},
	}

	for _, input := range inputs {
		text, err := extractor.ExtractText(input)
		assert.Error(t, err)
		assert.Empty(t, text)
	}
}

func TestExtractTextSurvivesTruncatedPDF(t *testing.T) {
	extractor := NewPDFExtractor()

	// A valid header with a garbage body must not panic.
	text, err := extractor.ExtractText([]byte("%PDF-1.4\ngarbage body with no xref"))
	assert.Error(t, err)
	assert.Empty(t, text)
}
