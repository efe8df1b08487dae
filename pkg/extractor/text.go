package extractor

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/explainium/explainium/pkg/types"
)

// TextExtractor handles the document upload kind: PDF, DOCX and plain text.
type TextExtractor struct {
	maxContentLength int
}

func NewTextExtractor(maxContentLength int) *TextExtractor {
	if maxContentLength <= 0 {
		maxContentLength = 1 << 20
	}
	return &TextExtractor{maxContentLength: maxContentLength}
}

func (e *TextExtractor) Kind() types.UploadKind {
	return types.UPLOAD_KIND_DOCUMENT
}

func (e *TextExtractor) Extract(ctx context.Context, data []byte, ext string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch ext {
	case ".pdf":
		res, err = e.extractPDF(data)
	case ".docx":
		res, err = e.extractDOCX(data)
	case ".txt":
		res, err = e.extractTXT(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	e.truncate(res)
	return res, nil
}

// truncate bounds the concatenated content. The cut backs off to a rune
// boundary so truncation never leaves invalid UTF-8 behind, and is recorded
// on the result so the pipeline can note it in document metadata.
func (e *TextExtractor) truncate(res *Result) {
	res.OriginalLength = len(res.Text)
	if len(res.Text) <= e.maxContentLength {
		return
	}
	cut := e.maxContentLength
	for cut > 0 && !utf8.RuneStart(res.Text[cut]) {
		cut--
	}
	res.Text = res.Text[:cut]
	res.Truncated = true
}

func (e *TextExtractor) extractPDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	res := &Result{}
	var parts []string
	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrExtractionFailed)
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Keep going, a single unreadable page should not sink the rest.
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", i, pageText))

		res.Structures = append(res.Structures, Structure{
			Type:     types.STRUCTURE_TYPE_PAGE,
			Content:  pageText,
			Position: i,
		})
		res.Structures = append(res.Structures, detectTables(pageText, i)...)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no readable pages", ErrExtractionFailed)
	}

	res.Text = strings.Join(parts, "\n\n")
	return res, nil
}

// detectTables is a best-effort scan for column-aligned rows: consecutive
// lines with two or more wide gaps are serialized as one table structure.
func detectTables(pageText string, page int) []Structure {
	var (
		structures []Structure
		tableRows  []string
	)

	flush := func() {
		if len(tableRows) >= 2 {
			structures = append(structures, Structure{
				Type:     types.STRUCTURE_TYPE_TABLE,
				Content:  strings.Join(tableRows, "\n"),
				Position: page,
			})
		}
		tableRows = nil
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := splitColumns(line)
		if len(cells) >= 2 {
			tableRows = append(tableRows, strings.Join(cells, " | "))
			continue
		}
		flush()
	}
	flush()

	return structures
}

var columnGap = regexp.MustCompile(`\s{2,}|\t`)

func splitColumns(line string) []string {
	var cells []string
	for _, c := range columnGap.Split(strings.TrimSpace(line), -1) {
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

var (
	docxParagraph    = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	docxHeadingStyle = regexp.MustCompile(`<w:pStyle[^>]*w:val="Heading(\d)"`)
	docxTable        = regexp.MustCompile(`(?s)<w:tbl>.*?</w:tbl>`)
	docxRow          = regexp.MustCompile(`(?s)<w:tr[ >].*?</w:tr>`)
	docxCell         = regexp.MustCompile(`(?s)<w:tc[ >].*?</w:tc>`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
)

func (e *TextExtractor) extractDOCX(data []byte) (*Result, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	res := &Result{}
	var (
		parts    []string
		position int
	)

	// Tables first: their paragraphs are consumed here and masked out of the
	// paragraph walk below so cell text is not emitted twice.
	tableSpans := docxTable.FindAllStringIndex(content, -1)
	for _, span := range tableSpans {
		position++
		var rows []string
		for _, tr := range docxRow.FindAllString(content[span[0]:span[1]], -1) {
			var cells []string
			for _, tc := range docxCell.FindAllString(tr, -1) {
				if text := cleanDocxText(tc); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, " | "))
			}
		}
		if len(rows) > 0 {
			serialized := strings.Join(rows, "\n")
			parts = append(parts, serialized)
			res.Structures = append(res.Structures, Structure{
				Type:     types.STRUCTURE_TYPE_TABLE,
				Content:  serialized,
				Position: position,
			})
		}
	}
	body := maskSpans(content, tableSpans)

	for _, p := range docxParagraph.FindAllString(body, -1) {
		text := cleanDocxText(p)
		if text == "" {
			continue
		}
		position++
		parts = append(parts, text)

		if m := docxHeadingStyle.FindStringSubmatch(p); m != nil {
			level, _ := strconv.Atoi(m[1])
			res.Structures = append(res.Structures, Structure{
				Type:     types.STRUCTURE_TYPE_HEADING,
				Content:  text,
				Position: position,
				Level:    level,
			})
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: docx contains no text", ErrExtractionFailed)
	}

	res.Text = strings.Join(parts, "\n")
	return res, nil
}

func cleanDocxText(fragment string) string {
	return strings.TrimSpace(xmlTag.ReplaceAllString(fragment, ""))
}

func maskSpans(s string, spans [][]int) string {
	if len(spans) == 0 {
		return s
	}
	b := []byte(s)
	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

func (e *TextExtractor) extractTXT(data []byte) (*Result, error) {
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text file", ErrExtractionFailed)
	}

	res := &Result{Text: text}

	// Plain text gets a line-based breakdown only: one section per block of
	// non-blank lines.
	position := 0
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		position++
		res.Structures = append(res.Structures, Structure{
			Type:     types.STRUCTURE_TYPE_SECTION,
			Content:  block,
			Position: position,
		})
	}

	return res, nil
}
