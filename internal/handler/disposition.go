package handler

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackFilename = "download"

// ContentDisposition builds an attachment header carrying an ASCII fallback
// filename and the exact UTF-8 name in RFC 5987 form.
func ContentDisposition(filename string) string {
	return `attachment; filename="` + asciiFilename(filename) + `"; filename*=UTF-8''` + encodeRFC5987(filename)
}

// asciiFilename folds accents away ("Müller" -> "Muller") and replaces whatever
// is still outside printable ASCII, plus quotes and backslashes.
func asciiFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	folded = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, folded)

	if strings.Trim(folded, "_ .") == "" {
		return fallbackFilename
	}

	return folded
}

func encodeRFC5987(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
