package fileio

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding labels recorded on Content.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	Latin1  = "iso-8859-1"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// lookupEncoding maps a recorded label to its codec. UTF-8 maps to nil.
func lookupEncoding(label string) (encoding.Encoding, error) {
	switch strings.ToLower(label) {
	case "", UTF8, "utf8", "ascii":
		return nil, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case Latin1, "latin-1", "latin1":
		// htmlindex would resolve this label to windows-1252.
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc, nil
}

// bomFor returns the byte order mark written for label.
func bomFor(label string) []byte {
	switch label {
	case UTF16LE:
		return bomUTF16LE
	case UTF16BE:
		return bomUTF16BE
	default:
		return bomUTF8
	}
}

// decode turns raw file bytes into text, reporting the encoding it used and
// whether a byte order mark was stripped.
func decode(data []byte) (text, label string, bom bool, err error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data, bom = data[len(bomUTF8):], true
		if !utf8.Valid(data) {
			return "", "", false, fmt.Errorf("invalid utf-8 after byte order mark")
		}
		return string(data), UTF8, bom, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(data[len(bomUTF16LE):], UTF16LE, true)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(data[len(bomUTF16BE):], UTF16BE, true)
	}

	if utf8.Valid(data) {
		return string(data), UTF8, false, nil
	}

	if guess := detectCharset(data); guess != "" {
		if text, label, _, err := decodeWith(data, guess, false); err == nil {
			return text, label, false, nil
		}
	}
	// Latin-1 maps every byte to a rune, so it always round-trips.
	return decodeWith(data, Latin1, false)
}

// decodeWith decodes data as label and checks that encoding the result
// reproduces data exactly.
func decodeWith(data []byte, label string, bom bool) (string, string, bool, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return "", "", false, err
	}
	if enc == nil {
		if !utf8.Valid(data) {
			return "", "", false, fmt.Errorf("invalid utf-8")
		}
		return string(data), UTF8, bom, nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", false, fmt.Errorf("decode as %s: %w", label, err)
	}
	again, err := enc.NewEncoder().Bytes(decoded)
	if err != nil || !bytes.Equal(again, data) {
		return "", "", false, fmt.Errorf("encoding %s does not round-trip", label)
	}
	return string(decoded), label, bom, nil
}

// detectCharset returns the statistical detector's best guess, or "".
func detectCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}

// encode renders text back into the bytes of label, with its byte order mark
// when bom is set.
func encode(text, label string, bom bool) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}

	var body []byte
	if enc == nil {
		body = []byte(text)
	} else {
		body, err = enc.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode as %s: %w", label, err)
		}
	}

	if !bom {
		return body, nil
	}
	mark := bomFor(strings.ToLower(label))
	out := make([]byte, 0, len(mark)+len(body))
	return append(append(out, mark...), body...), nil
}
