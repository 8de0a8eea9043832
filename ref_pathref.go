package charskema

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef is an immutable JSON pointer under construction. Every step
// returns a new value, so a PathRef can be shared between sibling fields.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	// Issue builds an Issue at the pointer. kv is read as key/value pairs
	// into Params.
	Issue(code, msg string, kv ...any) Issue
}

// Root returns the PathRef of the document root.
func Root() PathRef { return pathRef("") }

// At wraps an already escaped pointer. "" and "/" both denote the root.
func At(pointer string) PathRef {
	return pathRef(strings.TrimSuffix(normalizePointer(pointer), "/"))
}

// pathRef stores the escaped pointer without the root slash; "" is the root.
type pathRef string

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return p + pathRef("/"+tokenEscaper.Replace(name))
}

func (p pathRef) Index(i int) PathRef {
	return p + pathRef("/"+strconv.Itoa(i))
}

func (p pathRef) Pointer() string { return normalizePointer(string(p)) }

func (p pathRef) Issue(code, msg string, kv ...any) Issue {
	params := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// FieldPointer returns the pointer of key below base.
func FieldPointer(base, key string) string { return At(base).Field(key).Pointer() }

// IndexPointer returns the pointer of index i below base.
func IndexPointer(base string, i int) string { return At(base).Index(i).Pointer() }
