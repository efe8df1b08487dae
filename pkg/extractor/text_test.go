package extractor

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestTextExtractorTXT(t *testing.T) {
	e := NewTextExtractor(0)

	data := []byte("Operating Instructions\n\nStart the pump.\nCheck the gauge.\n\nShut down after use.")
	res, err := e.Extract(context.Background(), data, ".txt")
	assert.NoError(t, err)

	assert.Equal(t, string(data), res.Text)
	assert.False(t, res.Truncated)
	assert.Equal(t, len(data), res.OriginalLength)

	assert.Len(t, res.Structures, 3)
	for i, s := range res.Structures {
		assert.Equal(t, types.STRUCTURE_TYPE_SECTION, s.Type)
		assert.Equal(t, i+1, s.Position)
	}
	assert.Equal(t, "Operating Instructions", res.Structures[0].Content)
}

func TestTextExtractorTXTEmpty(t *testing.T) {
	e := NewTextExtractor(0)

	_, err := e.Extract(context.Background(), []byte("   \n\n  "), ".txt")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestTextExtractorTXTInvalidUTF8(t *testing.T) {
	e := NewTextExtractor(0)

	res, err := e.Extract(context.Background(), []byte("ok \xff\xfe text"), ".txt")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(res.Text, "�"))
}

func TestTextExtractorTruncation(t *testing.T) {
	e := NewTextExtractor(16)

	data := []byte("this line is much longer than sixteen bytes")
	res, err := e.Extract(context.Background(), data, ".txt")
	assert.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Equal(t, len(data), res.OriginalLength)
	assert.Len(t, res.Text, 16)
}

func TestTextExtractorTruncationRuneBoundary(t *testing.T) {
	e := NewTextExtractor(5)

	data := []byte("abcd日本語のテキスト")
	res, err := e.Extract(context.Background(), data, ".txt")
	assert.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Equal(t, "abcd", res.Text)
	assert.True(t, utf8.ValidString(res.Text))
	assert.Equal(t, len(data), res.OriginalLength)
}

func TestTextExtractorUnsupportedExt(t *testing.T) {
	e := NewTextExtractor(0)

	_, err := e.Extract(context.Background(), []byte("data"), ".zip")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTextExtractorCancelledContext(t *testing.T) {
	e := NewTextExtractor(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("text"), ".txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectTables(t *testing.T) {
	pageText := "Intro line\n" +
		"Part     Qty    Torque\n" +
		"Bolt     8      40 Nm\n" +
		"Nut      8      35 Nm\n" +
		"Trailing note"

	structures := detectTables(pageText, 2)
	assert.Len(t, structures, 1)
	assert.Equal(t, types.STRUCTURE_TYPE_TABLE, structures[0].Type)
	assert.Equal(t, 2, structures[0].Position)

	rows := strings.Split(structures[0].Content, "\n")
	assert.Len(t, rows, 3)
	assert.Equal(t, "Part | Qty | Torque", rows[0])
}

func TestDetectTablesSingleRowIgnored(t *testing.T) {
	// One aligned line is not enough evidence for a table.
	structures := detectTables("Name     Value\nplain paragraph text", 1)
	assert.Empty(t, structures)
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitColumns("  a   b\tc  "))
	assert.Nil(t, splitColumns(""))
	assert.Equal(t, []string{"single cell"}, splitColumns("single cell"))
}
