package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BOM prefixes we detect before handing bytes to the CSV reader.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText detects the encoding of a zoning export, strips any BOM and
// returns UTF-8 bytes along with the detected encoding name. Exports come
// from a mix of Windows tooling, so besides plain UTF-8 we see UTF-16 in
// both byte orders and the occasional latin-1 file.
func decodeText(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}

	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], "utf-8-bom", nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		decoded, err := decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode UTF-16 LE: %w", err)
		}

		return decoded, "utf-16le", nil
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		decoded, err := decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode UTF-16 BE: %w", err)
		}

		return decoded, "utf-16be", nil
	}

	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	// Last resort: latin-1 maps every byte to a code point, so this cannot fail.
	decoded, err := decodeWith(data, charmap.ISO8859_1.NewDecoder())
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode latin-1: %w", err)
	}

	return decoded, "latin-1", nil
}

func decodeWith(data []byte, t transform.Transformer) ([]byte, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, err
	}

	return decoded, nil
}
