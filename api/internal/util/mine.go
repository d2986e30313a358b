package util

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// FallbackAudioMIME is used when neither the caller nor the bytes tell us better.
const FallbackAudioMIME = "audio/mpeg"

// SplitDataURL strips everything up to and including "base64," and returns the
// payload plus the MIME type found in a "data:<mime>;base64," prefix, if any.
func SplitDataURL(s string) (payload, mime string) {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, "base64,")
	if idx == -1 {
		return s, ""
	}
	meta := s[:idx]
	payload = s[idx+len("base64,"):]
	if strings.HasPrefix(strings.ToLower(meta), "data:") {
		meta = meta[len("data:"):]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			meta = meta[:semi]
		}
		mime = strings.TrimSpace(meta)
	}
	return payload, mime
}

// StripDataURL returns the bare base64 payload.
func StripDataURL(s string) string {
	p, _ := SplitDataURL(s)
	return p
}

// DecodeBase64 accepts standard and URL-safe alphabets, with or without
// padding. Line breaks and spaces inside the payload are ignored.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, s)

	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// SniffAudioMIME recognizes common audio containers by their magic bytes.
func SniffAudioMIME(b []byte) string {
	switch {
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return "audio/wav"
	case len(b) >= 3 && bytes.Equal(b[:3], []byte("ID3")):
		return "audio/mpeg"
	case len(b) >= 4 && bytes.Equal(b[:4], []byte("OggS")):
		return "audio/ogg"
	case len(b) >= 4 && bytes.Equal(b[:4], []byte("fLaC")):
		return "audio/flac"
	case len(b) >= 4 && b[0] == 0x1A && b[1] == 0x45 && b[2] == 0xDF && b[3] == 0xA3:
		return "audio/webm"
	case len(b) >= 12 && bytes.Equal(b[4:8], []byte("ftyp")):
		return "audio/mp4"
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xF6 == 0xF0:
		// ADTS: sync word plus layer bits 00
		return "audio/aac"
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0:
		// MPEG audio frame sync without an ID3 tag
		return "audio/mpeg"
	}
	return ""
}

// IsWildcardMIME reports whether m carries no usable subtype.
func IsWildcardMIME(m string) bool {
	m = strings.TrimSpace(m)
	return m == "" || strings.HasSuffix(m, "/*") || m == "*"
}

// PickMIME takes an explicit MIME, then the data:URI hint, then sniffs the bytes.
func PickMIME(explicit, hint string, data []byte) string {
	if exp := strings.TrimSpace(explicit); !IsWildcardMIME(exp) {
		return exp
	}
	if h := strings.TrimSpace(hint); !IsWildcardMIME(h) {
		return h
	}
	if m := SniffAudioMIME(data); m != "" {
		return m
	}
	return FallbackAudioMIME
}
