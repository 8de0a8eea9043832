package registry_test

import (
	"reflect"
	"testing"

	"github.com/reoring/charskema/registry"
)

func TestRegistry_LookupAndOrder(t *testing.T) {
	r := registry.New()
	r.Register("example.com/b", "ZSchema", 1)
	r.Register("example.com/b", "ASchema", 2)
	r.Register("example.com/a", "XSchema", 3)

	if v, ok := r.Lookup("example.com/b", "ASchema"); !ok || v != 2 {
		t.Fatalf("unexpected lookup: %v %v", v, ok)
	}
	if _, ok := r.Lookup("example.com/b", "Missing"); ok {
		t.Fatalf("expected miss")
	}
	if _, ok := r.Lookup("example.com/none", "ASchema"); ok {
		t.Fatalf("expected miss for unknown package")
	}
	if got := r.Exports("example.com/b"); !reflect.DeepEqual(got, []string{"ASchema", "ZSchema"}) {
		t.Fatalf("unexpected exports: %v", got)
	}
	if got := r.Packages(); !reflect.DeepEqual(got, []string{"example.com/a", "example.com/b"}) {
		t.Fatalf("unexpected packages: %v", got)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := registry.New()
	r.Register("p", "XSchema", 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	r.Register("p", "XSchema", 2)
}
