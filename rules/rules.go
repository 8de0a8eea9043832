// Package rules holds collection-level refinements shared by dsl rules.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/i18n"
)

// UniqueBy reports every element of items whose value at keyPath repeats the
// value of an earlier element. keyPath is a JSON pointer relative to the
// element ("/id") or a bare top-level key ("id"). Elements without the key
// are skipped. Issues point at the offending key: /<index><keyPath>.
func UniqueBy(items []any, keyPath string) charskema.Issues {
	kp := normalizePath(keyPath)
	seen := make(map[any]int, len(items))
	var iss charskema.Issues
	for i, it := range items {
		v, ok := Lookup(it, kp)
		if !ok || v == nil {
			continue
		}
		k := identity(v)
		if first, dup := seen[k]; dup {
			p := charskema.JoinPointer(charskema.IndexPointer("/", i), kp)
			iss = append(iss, charskema.Issue{
				Path:    p,
				Code:    charskema.CodeUniqueness,
				Message: i18n.T(charskema.CodeUniqueness, map[string]string{"key": strings.TrimPrefix(kp, "/")}),
				Params:  map[string]any{"first": first, "dup": i, "key": kp, "value": v},
				Rule:    "unique_by",
			})
			continue
		}
		seen[k] = i
	}
	return iss
}

// Lookup resolves an escaped JSON pointer against a plain value graph.
func Lookup(v any, pointer string) (any, bool) {
	if pointer == "" || pointer == "/" {
		return v, true
	}
	cur := v
	for _, tok := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[tok]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// identity maps a value onto a comparable key. Numbers of different Go types
// collapse onto their decimal text so 1 and 1.0 collide.
func identity(v any) any {
	switch n := v.(type) {
	case string, bool:
		return n
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "num:" + fmt.Sprint(reflect.ValueOf(n).Convert(reflect.TypeOf(float64(0))).Float())
	}
	if t := reflect.TypeOf(v); t != nil && t.Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func normalizePath(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
