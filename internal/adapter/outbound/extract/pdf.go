package extract

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rezzy/server/internal/port/outbound"
	"rsc.io/pdf"
)

// extractPDF reads the text runs of each page until the character cap. The
// reader panics on some malformed streams, so the panic is turned into an error.
func extractPDF(data []byte, cfg Config) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", outbound.ErrUnsupportedDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", outbound.ErrUnsupportedDocument, err)
	}

	buf := newTextBuffer(cfg.MaxChars)
	for i := 1; i <= reader.NumPage() && !buf.full(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if err := checkContentSize(page, cfg.MaxPartBytes); err != nil {
			return "", err
		}
		writePage(buf, page.Content().Text)
		buf.write("\n\n")
	}
	return buf.String(), nil
}

// checkContentSize decodes the page content stream once without keeping it,
// so a compressed stream cannot inflate into an unbounded run list.
func checkContentSize(page pdf.Page, limit int64) error {
	contents := page.V.Key("Contents")
	if contents.Kind() != pdf.Stream {
		return nil
	}
	rc := contents.Reader()
	defer rc.Close()
	n, _ := io.Copy(io.Discard, io.LimitReader(rc, limit+1))
	if n > limit {
		return fmt.Errorf("%w: page content exceeds %d bytes", outbound.ErrDocumentTooLarge, limit)
	}
	return nil
}

// writePage joins text runs, starting a new line whenever the baseline moves.
func writePage(buf *textBuffer, runs []pdf.Text) {
	var lastY float64
	endsWithSpace := true
	for i, t := range runs {
		if i > 0 {
			switch {
			case math.Abs(t.Y-lastY) > t.FontSize/2:
				buf.writeByte('\n')
			case !endsWithSpace && t.S != " " && gapBefore(runs[i-1], t):
				buf.writeByte(' ')
			}
		}
		buf.write(t.S)
		endsWithSpace = strings.HasSuffix(t.S, " ")
		lastY = t.Y
	}
}

func gapBefore(prev, cur pdf.Text) bool {
	return cur.X-(prev.X+prev.W) > prev.FontSize*0.2
}
