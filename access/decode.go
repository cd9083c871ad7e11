package access

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// Encoding names a supported text encoding.
type Encoding string

const (
	UTF8     Encoding = "utf-8"
	ShiftJIS Encoding = "shift_jis"
	EUCJP    Encoding = "euc-jp"
	CP932    Encoding = "cp932"
)

// SupportedEncodings lists the accepted encodings in display order.
var SupportedEncodings = []Encoding{UTF8, ShiftJIS, EUCJP, CP932}

// The x/text Shift_JIS decoder follows the WHATWG definition, which already
// covers the Windows-31J (cp932) vendor extensions.
var legacyEncodings = map[Encoding]encoding.Encoding{
	ShiftJIS: japanese.ShiftJIS,
	EUCJP:    japanese.EUCJP,
	CP932:    japanese.ShiftJIS,
}

var (
	errUnsupportedEncoding = errors.New("unsupported encoding")
	errInvalidSequence     = errors.New("invalid byte sequence")
)

// ParseEncoding matches name exactly against the supported encodings.
func ParseEncoding(name string) (Encoding, bool) {
	for _, enc := range SupportedEncodings {
		if string(enc) == name {
			return enc, true
		}
	}
	return "", false
}

// decode converts raw bytes to a string. Invalid input is an error rather than
// being replaced with U+FFFD.
func decode(data []byte, enc Encoding) (string, error) {
	if enc == UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w at offset %d", errInvalidSequence, firstInvalidUTF8(data))
		}
		return string(data), nil
	}

	legacy, ok := legacyEncodings[enc]
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnsupportedEncoding, enc)
	}

	decoded, err := legacy.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	// The x/text decoders substitute U+FFFD for malformed input; no legacy
	// Japanese encoding can produce that rune on its own.
	if idx := bytes.IndexRune(decoded, utf8.RuneError); idx >= 0 {
		return "", fmt.Errorf("%w near decoded offset %d", errInvalidSequence, idx)
	}
	return string(decoded), nil
}

func firstInvalidUTF8(data []byte) int {
	for offset := 0; offset < len(data); {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			return offset
		}
		offset += size
	}
	return len(data)
}
