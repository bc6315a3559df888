package gedcom

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Charset identifies the character encoding of a GEDCOM byte stream.
// UTF-16 is called UNICODE in the GEDCOM standard.
type Charset string

const (
	CharsetASCII   Charset = "ASCII"
	CharsetANSEL   Charset = "ANSEL"
	CharsetUTF8    Charset = "UTF-8"
	CharsetUnicode Charset = "UNICODE"
)

// CharsetFromString maps a header CHAR value to a Charset.
func CharsetFromString(s string) (Charset, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASCII":
		return CharsetASCII, true
	case "ANSEL":
		return CharsetANSEL, true
	case "UTF-8":
		return CharsetUTF8, true
	case "UNICODE", "UTF-16":
		return CharsetUnicode, true
	default:
		return "", false
	}
}

// Byte order marks recognized at the start of a stream.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodedInput is the output of the encoding detector.
type decodedInput struct {
	text    string
	charset Charset
	hasBOM  bool
}

// Decode detects the encoding of data from its leading bytes and decodes it
// to text. With a byte order mark present the marker is stripped and the
// matching decoder used. Without one, strict mode fails; relaxed mode tries
// UTF-8 first and then a single-byte fallback that maps each byte to the
// code point of the same value, approximating the ANSEL and ASCII encodings
// of the older revisions.
func Decode(data []byte, mode Mode) (text string, charset Charset, hasBOM bool, err error) {
	dec, err := decodeInput(data, mode)
	if err != nil {
		return "", "", false, err
	}
	return dec.text, dec.charset, dec.hasBOM, nil
}

func decodeInput(data []byte, mode Mode) (*decodedInput, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		body := data[len(bomUTF8):]
		if !utf8.Valid(body) {
			return nil, fmt.Errorf("%w: invalid UTF-8 after byte order mark", ErrEncoding)
		}
		return &decodedInput{text: string(body), charset: CharsetUTF8, hasBOM: true}, nil

	case bytes.HasPrefix(data, bomUTF16LE):
		text, err := decodeUTF16(data[len(bomUTF16LE):], false)
		if err != nil {
			return nil, err
		}
		return &decodedInput{text: text, charset: CharsetUnicode, hasBOM: true}, nil

	case bytes.HasPrefix(data, bomUTF16BE):
		text, err := decodeUTF16(data[len(bomUTF16BE):], true)
		if err != nil {
			return nil, err
		}
		return &decodedInput{text: text, charset: CharsetUnicode, hasBOM: true}, nil
	}

	if mode == Strict {
		return nil, fmt.Errorf("%w: missing required byte order mark", ErrEncoding)
	}

	if utf8.Valid(data) {
		return &decodedInput{text: string(data), charset: CharsetUTF8}, nil
	}

	// Single-byte fallback. Every byte maps directly to a code point, so
	// this decoder cannot fail; it is the last attempt in the chain.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return &decodedInput{text: string(runes), charset: CharsetANSEL}, nil
}

// decodeUTF16 decodes a UTF-16 byte stream, including surrogate pairs,
// after the byte order mark has been stripped.
func decodeUTF16(data []byte, bigEndian bool) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("%w: undecodable byte stream: odd-length UTF-16 data", ErrEncoding)
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
		}
	}
	return string(utf16.Decode(units)), nil
}
