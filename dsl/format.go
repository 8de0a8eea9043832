package dsl

import (
	"math"
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// URL accepts absolute URLs: a scheme followed by a host, a path or an opaque
// part ("https://x", "data:image/png;base64,...", "file:///tmp/a").
func URL() *StringSchema { return String().withFormat("url", isURL) }

// Email accepts a bare RFC 5322 address without display name.
func Email() *StringSchema { return String().withFormat("email", isEmail) }

// UUID accepts the canonical 36-character hyphenated form.
func UUID() *StringSchema { return String().withFormat("uuid", isUUID) }

// Int32 accepts integers in the signed 32-bit range.
func Int32() *IntSchema {
	s := Int().Min(math.MinInt32).Max(math.MaxInt32)
	s.format = "int32"
	return s
}

// PositiveInteger accepts integers >= 1.
func PositiveInteger() *IntSchema { return Int().Min(1) }

// isURL strips leading and trailing C0 controls and spaces before parsing,
// as URL parsers in browsers do. The validated value itself is not changed.
func isURL(s string) bool {
	s = strings.TrimFunc(s, func(r rune) bool { return r <= 0x20 })
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
