package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/rezzy/server/internal/port/outbound"
)

// oleMagic opens every compound file, which is the container of Word 97-2003 documents.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// minRunLength drops short fragments such as style and font identifiers.
const minRunLength = 8

// extractDOC recovers text from a binary Word document by collecting runs of
// printable characters, stored either as single bytes or as UTF-16LE. Layout
// is lost and some metadata strings come along.
func extractDOC(data []byte, maxChars int) (string, error) {
	if !bytes.HasPrefix(data, oleMagic) {
		return "", fmt.Errorf("%w: not a Word document", outbound.ErrUnsupportedDocument)
	}

	buf := newTextBuffer(maxChars)
	for i := len(oleMagic); i < len(data) && !buf.full(); {
		run, next := scanRun(data, i)
		if isProse(run) {
			buf.write(run)
			buf.writeByte('\n')
		}
		i = next
	}

	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("%w: no text found", outbound.ErrUnsupportedDocument)
	}
	return buf.String(), nil
}

// scanRun reads the printable run starting at i and returns it with the
// offset just past it. A run whose first character is followed by a zero
// byte is read as UTF-16LE.
func scanRun(data []byte, i int) (string, int) {
	if !printable(data[i]) {
		return "", i + 1
	}

	var sb strings.Builder
	if i+1 < len(data) && data[i+1] == 0 {
		for i+1 < len(data) && printable(data[i]) && data[i+1] == 0 {
			sb.WriteByte(paragraph(data[i]))
			i += 2
		}
		return sb.String(), i
	}

	for i < len(data) && printable(data[i]) {
		sb.WriteByte(paragraph(data[i]))
		i++
	}
	return sb.String(), i
}

func printable(c byte) bool {
	return c >= 0x20 && c < 0x7F || c == '\t' || c == '\r' || c == '\n'
}

// paragraph maps the Word paragraph mark to a newline.
func paragraph(c byte) byte {
	if c == '\r' {
		return '\n'
	}
	return c
}

// isProse keeps runs long enough to be text that contain a space and a letter.
func isProse(run string) bool {
	if len(run) < minRunLength || !strings.ContainsRune(run, ' ') {
		return false
	}
	return strings.IndexFunc(run, unicode.IsLetter) >= 0
}
