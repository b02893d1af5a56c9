// Package sniff classifies uploaded content by its leading bytes.
// The result is authoritative; client supplied content types are ignored.
package sniff

import (
	"bytes"
)

const (
	// PrefixSize is how many leading bytes are inspected.
	PrefixSize = 32

	MimeOctetStream = "application/octet-stream"
	MimeText        = "text/plain"

	printableThreshold = 0.85
)

type signature struct {
	magic []byte
	mime  string
	ext   string
}

// Checked in order; ZIP comes last because office formats share its envelope.
var signatures = []signature{
	{magic: []byte{0xFF, 0xD8, 0xFF}, mime: "image/jpeg", ext: "jpg"},
	{magic: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, mime: "image/png", ext: "png"},
	{magic: []byte("GIF87a"), mime: "image/gif", ext: "gif"},
	{magic: []byte("GIF89a"), mime: "image/gif", ext: "gif"},
	{magic: []byte("%PDF-"), mime: "application/pdf", ext: "pdf"},
	{magic: []byte("PK\x03\x04"), mime: "application/zip", ext: "zip"},
}

// Sniff returns the MIME type and file extension for data. ext is empty when
// the type has no known extension.
func Sniff(data []byte) (mime string, ext string) {
	prefix := data
	if len(prefix) > PrefixSize {
		prefix = prefix[:PrefixSize]
	}

	for _, sig := range signatures {
		if bytes.HasPrefix(prefix, sig.magic) {
			return sig.mime, sig.ext
		}
	}

	if looksLikeText(prefix) {
		return MimeText, "txt"
	}

	return MimeOctetStream, ""
}

func looksLikeText(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}

	printable := 0
	for _, c := range prefix {
		if c == '\t' || c == '\n' || c == '\r' || (c >= 0x20 && c <= 0x7E) {
			printable++
		}
	}

	return float64(printable)/float64(len(prefix)) > printableThreshold
}
