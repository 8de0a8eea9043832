package gen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/charskema/internal/discover"
)

// reserved holds global type names of the TypeScript standard library and
// the DOM that a declaration must not shadow.
var reserved = map[string]bool{
	"Array": true, "ArrayBuffer": true, "Awaited": true, "BigInt": true, "Blob": true,
	"Boolean": true, "Buffer": true, "DataView": true, "Date": true, "Element": true,
	"Error": true, "Event": true, "Exclude": true, "Extract": true, "File": true,
	"Function": true, "Generator": true, "Headers": true, "InstanceType": true, "Intl": true,
	"Iterator": true, "JSON": true, "Map": true, "Math": true, "Node": true,
	"NonNullable": true, "Number": true, "Object": true, "Omit": true, "Parameters": true,
	"Partial": true, "Pick": true, "Promise": true, "Proxy": true, "Readonly": true,
	"Record": true, "Reflect": true, "RegExp": true, "Request": true, "Required": true,
	"Response": true, "ReturnType": true, "Set": true, "String": true, "Symbol": true,
	"Uint8Array": true, "URL": true, "WeakMap": true, "WeakSet": true,
}

// DeriveName turns an export name into a declaration name: the Schema suffix
// is stripped, the first letter upper-cased and names shadowing a global
// type get a Type suffix.
func DeriveName(export string) (string, bool) {
	base := strings.TrimSuffix(export, discover.Suffix)
	if base == "" {
		return "", false
	}
	r, size := utf8.DecodeRuneInString(base)
	name := string(unicode.ToUpper(r)) + base[size:]
	if !validIdent(name) {
		return "", false
	}
	if reserved[name] {
		name += "Type"
	}
	return name, true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// pascal upper-cases the first letter of every segment split on
// non-alphanumerics: "regex_match" -> "RegexMatch".
func pascal(s string) string {
	var b strings.Builder
	up := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			up = true
			continue
		}
		if up {
			r = unicode.ToUpper(r)
			up = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// propertyKey quotes object keys that are not identifiers.
func propertyKey(k string) string {
	if validIdent(k) {
		return k
	}
	return quote(k)
}

func itoa(i int) string { return strconv.Itoa(i) }
