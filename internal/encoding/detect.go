package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO88599    = "ISO-8859-9"
	CharsetISO885915   = "ISO-8859-15"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders lists the single-byte charsets chardet may report that we can decode.
var decoders = map[string]xenc.Encoding{
	"ISO-8859-1":       charmap.Windows1252,
	CharsetWindows1252: charmap.Windows1252,
	CharsetISO88599:    charmap.ISO8859_9,
	CharsetISO885915:   charmap.ISO8859_15,
}

// Decoded is a UTF-8 view of an input along with the charset it was read as.
type Decoded struct {
	io.Reader
	Charset string
}

// Detect sniffs the start of r and returns a reader producing UTF-8.
//
// A BOM wins; valid UTF-8 passes through; otherwise chardet picks a known
// single-byte charset and anything else is read as Windows-1252.
func Detect(r io.Reader) (*Decoded, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Decoded{Reader: br, Charset: CharsetUTF8}, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return &Decoded{Reader: transform.NewReader(br, dec), Charset: CharsetUTF16LE}, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return &Decoded{Reader: transform.NewReader(br, dec), Charset: CharsetUTF16BE}, nil
	}

	if utf8.Valid(buf) || (len(buf) == sniffLen && truncatedRune(buf)) {
		return &Decoded{Reader: br, Charset: CharsetUTF8}, nil
	}

	charset := CharsetWindows1252

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if _, ok := decoders[res.Charset]; ok {
			charset = res.Charset
		}
	}

	return &Decoded{
		Reader:  transform.NewReader(br, decoders[charset].NewDecoder()),
		Charset: charset,
	}, nil
}

// truncatedRune reports whether buf is valid UTF-8 except for a multi-byte
// rune cut off by the sniff window.
func truncatedRune(buf []byte) bool {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.Valid(buf[:len(buf)-i]) && !utf8.FullRune(buf[len(buf)-i:]) {
			return true
		}
	}

	return false
}
