package index

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageFunc receives the text of one page. total is the document's page count.
type PageFunc func(page, total int, text string) error

// Extractor reads page text from a document.
type Extractor interface {
	ExtractPages(ctx context.Context, path string, fn PageFunc) error
}

// PDFExtractor reads text-show operators from PDF content streams.
type PDFExtractor struct{}

// ExtractPages calls fn once per page in page order.
func (PDFExtractor) ExtractPages(ctx context.Context, path string, fn PageFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}

	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(pageNr, pdfCtx.PageCount, pageText(pdfCtx, pageNr)); err != nil {
			return err
		}
	}
	return nil
}

func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return textFromStream(data)
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromStream collects the strings shown by Tj, TJ, ' and " operators.
// Each shown string is kept as its own word so codes never merge with
// neighbouring text.
func textFromStream(data []byte) string {
	var words []string
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || !showsText(line) {
			continue
		}
		for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
			if text := strings.TrimSpace(decodePDFString(m[1])); text != "" {
				words = append(words, text)
			}
		}
	}
	return strings.Join(words, " ")
}

func showsText(line []byte) bool {
	return bytes.HasSuffix(line, []byte("Tj")) ||
		bytes.HasSuffix(line, []byte("TJ")) ||
		bytes.HasSuffix(line, []byte("'")) ||
		bytes.HasSuffix(line, []byte(`"`))
}

// decodePDFString handles the escape sequences of PDF literal strings.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
