package sanitize

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies a raw document's declared text encoding. The zero
// value means UTF-8.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingLatin1  Encoding = "latin-1"
	EncodingWin1252 Encoding = "windows-1252"
)

// decode converts raw bytes to a string. Byte sequences invalid in the
// declared encoding are substituted with U+FFFD; decoding itself never
// aborts the pipeline. Only an unknown encoding name is an error.
func decode(raw []byte, enc Encoding) (string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return "", err
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc, err)
	}
	return string(out), nil
}

func decoderFor(enc Encoding) (*encoding.Decoder, error) {
	switch strings.ToLower(string(enc)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", enc)
}
