// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package textenc decodes formula files of unknown encoding to UTF-8.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode returns data as UTF-8. A non-empty charset is tried first; when it
// is unknown or fails, a byte order mark or detection decides.
func Decode(data []byte, charset string) string {
	if charset != "" {
		if enc := Lookup(charset); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return strings.TrimPrefix(string(decoded), "\ufeff")
			}
		}
	}

	if hasBOM(data) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err == nil {
			return string(decoded)
		}
	}
	return decodeWithDetection(data)
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
}

// decodeWithDetection detects the encoding of data and decodes it to UTF-8.
func decodeWithDetection(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	results, err := chardet.NewTextDetector().DetectAll(data)
	if err != nil || len(results) == 0 {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}

	// chardet's ranking is unreliable on short formula lines, so every
	// candidate is decoded and scored.
	bestScore := -1 << 31
	bestText := ""
	for _, r := range results {
		enc := Lookup(r.Charset)
		if enc == nil {
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		text := string(decoded)
		if score := scoreDecodedText(text, r.Confidence); score > bestScore {
			bestScore = score
			bestText = text
		}
	}
	if bestText == "" {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return bestText
}

// scoreDecodedText scores how plausible a decoding of formula text is.
// Higher scores indicate more coherent text.
func scoreDecodedText(text string, confidence int) int {
	score := confidence
	for _, r := range text {
		switch {
		case r == '\uFFFD':
			score -= 10
		case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
			score -= 5
		case r == '\\' || r == '{' || r == '}' || r == '^' || r == '_':
			score += 2
		case r >= 0x0391 && r <= 0x03C9: // Greek
			score += 3
		case r >= 0x2200 && r <= 0x22FF: // Mathematical operators
			score += 3
		case r >= 0x3040 && r <= 0x30FF, r >= 0x4E00 && r <= 0x9FFF:
			score++
		case r >= 0x80 && r <= 0x9F: // C1 controls mean a wrong single-byte guess
			score -= 5
		case r >= 'A' && r <= 'z':
			score++
		}
	}
	return score
}

var encodings = map[string]encoding.Encoding{
	"utf8":        unicode.UTF8,
	"utf8bom":     unicode.UTF8BOM,
	"ascii":       unicode.UTF8,
	"usascii":     unicode.UTF8,
	"utf16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"iso88591":    charmap.ISO8859_1,
	"latin1":      charmap.ISO8859_1,
	"iso88592":    charmap.ISO8859_2,
	"iso88595":    charmap.ISO8859_5,
	"iso88597":    charmap.ISO8859_7,
	"iso88599":    charmap.ISO8859_9,
	"iso885915":   charmap.ISO8859_15,
	"windows1250": charmap.Windows1250,
	"cp1250":      charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"cp1251":      charmap.Windows1251,
	"windows1252": charmap.Windows1252,
	"cp1252":      charmap.Windows1252,
	"windows1253": charmap.Windows1253,
	"cp1253":      charmap.Windows1253,
	"koi8r":       charmap.KOI8R,
	"macintosh":   charmap.Macintosh,
	"shiftjis":    japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
	"cp932":       japanese.ShiftJIS,
	"eucjp":       japanese.EUCJP,
	"iso2022jp":   japanese.ISO2022JP,
	"euckr":       korean.EUCKR,
	"cp949":       korean.EUCKR,
	"gb2312":      simplifiedchinese.GBK,
	"gbk":         simplifiedchinese.GBK,
	"gb18030":     simplifiedchinese.GB18030,
	"big5":        traditionalchinese.Big5,
}

// Lookup maps a charset label such as "ISO-8859-1" or "windows_1252" to its
// encoding, or returns nil.
func Lookup(charset string) encoding.Encoding {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(charset))
	return encodings[key]
}
