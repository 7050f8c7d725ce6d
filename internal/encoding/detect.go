// Package encoding turns text in an unknown character set into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names reported by Decode.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode returns a UTF-8 reader over r and the charset it was read as.
// A byte order mark wins; then valid UTF-8 is passed through; then the
// charset is guessed, falling back to Windows-1252. A UTF-8 BOM is dropped.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return decodeWith(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), UTF16LE, nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return decodeWith(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), UTF16BE, nil
	}

	if utf8.Valid(completeRunes(head)) {
		return br, UTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, UTF8, nil
		case "ISO-8859-9":
			return decodeWith(br, charmap.ISO8859_9), ISO88599, nil
		}
	}

	return decodeWith(br, charmap.Windows1252), Windows1252, nil
}

// NewUTF8Reader is Decode without the charset name.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

func decodeWith(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}

// completeRunes drops a multi-byte sequence cut off at the end of the
// sniffed prefix so it is not mistaken for invalid UTF-8.
func completeRunes(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b
		}

		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			return b
		}
	}

	return b
}
