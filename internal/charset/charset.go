// Package charset recovers text from HTML bodies of unknown encoding.
//
// The encoding is taken from the first <meta ... charset=...> declaration in
// the body. Bodies without a usable declaration are read as UTF-8. Bytes that
// cannot be decoded are kept as \xNN escapes, so decoding never fails.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF8 is the label reported when the body is decoded as UTF-8.
const UTF8 = "utf-8"

// maxSequence is the longest byte sequence any supported encoding needs for
// one character, ISO-2022 escape sequences included.
const maxSequence = 4

// replacementLen is the UTF-8 length of U+FFFD. Decoding one character at a
// time into a buffer this size stops the decoder after the first character
// whenever that character is invalid.
const replacementLen = 3

var metaCharset = regexp.MustCompile(`(?i)<meta.*?charset=(.*?)[>\s]`)

// aliases maps common codec names that the IANA registry does not list.
var aliases = map[string]string{
	"ascii":     "us-ascii",
	"latin-1":   "iso-8859-1",
	"latin_1":   "iso-8859-1",
	"iso8859-1": "iso-8859-1",
	"utf8":      "utf-8",
}

// Result is a decoded body together with the charset used to decode it.
type Result struct {
	Text    string
	Charset string
}

// Decode decodes raw using its declared charset.
func Decode(raw []byte) Result {
	label := Declared(raw)
	if label == "" {
		return Result{Text: decodeUTF8(raw), Charset: UTF8}
	}

	enc := Lookup(label)
	if enc == nil || enc == unicode.UTF8 {
		return Result{Text: decodeUTF8(raw), Charset: UTF8}
	}

	return Result{Text: decodeWith(enc, raw), Charset: label}
}

// Lookup resolves a charset label. IANA names take precedence, so
// iso-8859-1 and us-ascii keep their own repertoires; labels only the WHATWG
// index knows fall back to it. It returns nil for unknown labels.
func Lookup(label string) encoding.Encoding {
	if alias, ok := aliases[label]; ok {
		label = alias
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	return nil
}

// Declared returns the normalized charset label of the first meta charset
// declaration in raw, or "" when there is none.
func Declared(raw []byte) string {
	m := metaCharset.FindSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.ToLower(string(m[1])), `;:'" /\`)
}

func decodeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var b strings.Builder
	b.Grow(len(raw) + len(raw)/8)
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			writeEscape(&b, raw[0])
		} else {
			b.Write(raw[:size])
		}
		raw = raw[size:]
	}
	return b.String()
}

func decodeWith(enc encoding.Encoding, raw []byte) string {
	out, err := enc.NewDecoder().Bytes(raw)
	if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		return string(out)
	}

	// Slow path: decode one character at a time with a single decoder, so
	// shift states survive, and escape the bytes of every invalid character.
	dec := enc.NewDecoder()
	dst := make([]byte, utf8.UTFMax)
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/8)
	for i := 0; i < len(raw); {
		n, text := nextChar(dec, dst, raw[i:])
		switch {
		case n == 0:
			writeEscape(&b, raw[i])
			n = 1
		case bytes.ContainsRune(text, utf8.RuneError):
			for _, c := range raw[i : i+n] {
				writeEscape(&b, c)
			}
		default:
			b.Write(text)
		}
		i += n
	}
	return b.String()
}

// nextChar feeds dec the shortest prefix of src it can consume. It returns
// the number of bytes consumed and the text produced, or 0 when no prefix of
// up to maxSequence bytes makes progress.
func nextChar(dec transform.Transformer, dst, src []byte) (int, []byte) {
	for w := 1; w <= maxSequence && w <= len(src); w++ {
		atEOF := w == len(src)
		nDst, nSrc, err := dec.Transform(dst[:replacementLen], src[:w], atEOF)
		if nSrc == 0 && errors.Is(err, transform.ErrShortDst) {
			nDst, nSrc, err = dec.Transform(dst, src[:w], atEOF)
		}
		if nSrc > 0 {
			return nSrc, dst[:nDst]
		}
		if err != nil && !errors.Is(err, transform.ErrShortSrc) {
			return 0, nil
		}
	}
	return 0, nil
}

func writeEscape(b *strings.Builder, c byte) {
	fmt.Fprintf(b, `\x%02x`, c)
}
