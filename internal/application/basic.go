package application

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicScheme = "Basic "

// ExtractEncodedCredentials returns the base64 payload of a Basic
// Authorization header value. The scheme comparison is exact: "Basic" in that
// case with a single trailing space. Anything else is not a Basic header.
func ExtractEncodedCredentials(header string) (string, bool) {
	if !strings.HasPrefix(header, basicScheme) {
		return "", false
	}
	return header[len(basicScheme):], true
}

// DecodeCredentials decodes the base64 payload into the "email:password" text.
// Missing padding is tolerated by right-padding to a multiple of four before
// decoding. Any decode failure, including invalid UTF-8 in the result, reports
// not-ok rather than an error: absent credentials are an expected outcome.
func DecodeCredentials(encoded string) (string, bool) {
	if rem := len(encoded) % 4; rem != 0 {
		encoded += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// SplitCredentials splits decoded credentials on the first colon only, so a
// password may itself contain ':'.
func SplitCredentials(decoded string) (email, password string, ok bool) {
	email, password, ok = strings.Cut(decoded, ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}
