package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rezzy/server/internal/port/outbound"
)

const (
	defaultMaxPartBytes = 10 << 20
	defaultMaxChars     = 50000
)

var zipMagic = []byte("PK\x03\x04")

// Config bounds the work done per document.
type Config struct {
	// MaxPartBytes caps the decompressed size of an archive part.
	MaxPartBytes int64
	// MaxChars caps the extracted text; collection stops once it is reached.
	MaxChars int
}

// Extractor implements outbound.TextExtractorPort for PDF and Word documents.
type Extractor struct {
	config Config
}

// NewExtractor creates a new text extractor. A nil config or zero fields
// select the defaults.
func NewExtractor(cfg *Config) *Extractor {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.MaxPartBytes <= 0 {
		c.MaxPartBytes = defaultMaxPartBytes
	}
	if c.MaxChars <= 0 {
		c.MaxChars = defaultMaxChars
	}
	return &Extractor{config: c}
}

// Extract returns the plain text of data, dispatching on the file extension.
// Legacy .doc files are read as OOXML when they are archives and scanned for
// printable runs otherwise.
func (e *Extractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".pdf":
		text, err = extractPDF(data, e.config)
	case ".docx":
		text, err = extractDOCX(data, e.config)
	case ".doc":
		if bytes.HasPrefix(data, zipMagic) {
			text, err = extractDOCX(data, e.config)
		} else {
			text, err = extractDOC(data, e.config.MaxChars)
		}
	default:
		return "", fmt.Errorf("%w: extension %q", outbound.ErrUnsupportedDocument, ext)
	}
	if err != nil {
		return "", err
	}

	return normalize(text), nil
}

// textBuffer collects text up to a rune limit.
type textBuffer struct {
	sb    strings.Builder
	limit int
	n     int
}

func newTextBuffer(limit int) *textBuffer {
	return &textBuffer{limit: limit}
}

// full reports whether the limit has been reached.
func (b *textBuffer) full() bool {
	return b.n >= b.limit
}

func (b *textBuffer) write(s string) {
	for _, r := range s {
		if b.n >= b.limit {
			return
		}
		b.sb.WriteRune(r)
		b.n++
	}
}

func (b *textBuffer) writeByte(c byte) {
	if c < utf8.RuneSelf {
		b.write(string(rune(c)))
	}
}

func (b *textBuffer) String() string {
	return b.sb.String()
}

// normalize trims trailing spaces and collapses runs of blank lines.
func normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Compile-time check
var _ outbound.TextExtractorPort = (*Extractor)(nil)
