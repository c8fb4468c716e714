package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/rezzy/server/internal/port/outbound"
)

const documentPart = "word/document.xml"

// extractDOCX reads the main document part of an OOXML archive.
func extractDOCX(data []byte, cfg Config) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", outbound.ErrUnsupportedDocument, err)
	}

	for _, f := range archive.File {
		if f.Name != documentPart {
			continue
		}
		if f.UncompressedSize64 > uint64(cfg.MaxPartBytes) {
			return "", fmt.Errorf("%w: %s is %d bytes, limit %d",
				outbound.ErrDocumentTooLarge, documentPart, f.UncompressedSize64, cfg.MaxPartBytes)
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		lr := &limitedReader{r: rc, n: cfg.MaxPartBytes}
		text, err := documentText(lr, cfg.MaxChars)
		if lr.exceeded {
			return "", fmt.Errorf("%w: %s exceeds %d bytes", outbound.ErrDocumentTooLarge, documentPart, cfg.MaxPartBytes)
		}
		return text, err
	}
	return "", fmt.Errorf("%w: %s missing", outbound.ErrUnsupportedDocument, documentPart)
}

// documentText walks WordprocessingML, keeping <w:t> runs and turning
// paragraphs, breaks and tabs into whitespace. It stops at maxChars.
func documentText(r io.Reader, maxChars int) (string, error) {
	dec := xml.NewDecoder(r)
	buf := newTextBuffer(maxChars)
	inText := false

	for !buf.full() {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", outbound.ErrUnsupportedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.writeByte('\t')
			case "br", "cr":
				buf.writeByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.writeByte('\n')
			}
		case xml.CharData:
			if inText {
				buf.write(string(t))
			}
		}
	}
	return buf.String(), nil
}

// limitedReader fails once more than n bytes are read, so a part whose
// header understates its size still cannot inflate without bound.
type limitedReader struct {
	r        io.Reader
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		l.exceeded = true
		return 0, outbound.ErrDocumentTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		l.exceeded = true
		return n, outbound.ErrDocumentTooLarge
	}
	return n, err
}
