// File: lixenwraith/tagcli/path.go
package tagcli

import (
	"fmt"
	"reflect"
	"strings"
)

// Dotted-path attribute access on command structs. Segments resolve by
// ordinary field lookup: the field's `cli` tag name when present, otherwise
// the lower-cased Go field name.

// Get resolves a dotted path on a command struct and returns the value at
// its final segment. The first segment that does not resolve is an error
// naming the struct type and the segment.
func Get(node any, path string) (any, error) {
	v, err := walkPath(node, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set assigns through a dotted path. Every segment but the last must resolve
// to an existing nested struct; no intermediate node is created implicitly.
// The node must be a pointer so the final assignment is addressable. The
// value is coerced to the field's declared type.
func Set(node any, path string, value any) error {
	v, err := walkPath(node, path)
	if err != nil {
		return err
	}
	if !v.CanAddr() {
		return fmt.Errorf("cannot set %q: node must be a struct pointer", path)
	}
	if err := decodeValue(value, v.Addr().Interface()); err != nil {
		return fmt.Errorf("cannot set %q: %w", path, err)
	}
	return nil
}

// walkPath traverses each dotted segment, returning the reflect value of the
// final one. Intermediate segments must resolve to existing nested structs.
func walkPath(node any, path string) (reflect.Value, error) {
	v := reflect.ValueOf(node)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("cannot resolve %q on nil node", path)
	}
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("nested node before %q in %q is nil", seg, path)
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%s is not a nested node (segment %q of %q)", v.Type(), seg, path)
		}
		fv, ok := fieldByAttrName(v, seg)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%s has no attribute %q (in path %q)", v.Type(), seg, path)
		}
		if i < len(segments)-1 {
			d := fv.Type()
			if d.Kind() == reflect.Ptr {
				d = d.Elem()
			}
			if d.Kind() != reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s.%s is not a nested node", v.Type(), seg)
			}
		}
		v = fv
	}
	return v, nil
}

// fieldByAttrName finds a struct field by attribute name: the `cli` tag name
// when tagged, the lower-cased field name otherwise.
func fieldByAttrName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if attrName(sf) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// attrName returns the attribute name a struct field is addressed by.
func attrName(sf reflect.StructField) string {
	tag := sf.Tag.Get("cli")
	if tag == "-" {
		return ""
	}
	if tag != "" {
		first := splitDirectives(tag)[0]
		if !strings.Contains(first, "=") && !isBoolDirective(first) && first != "" {
			return first
		}
	}
	return strings.ToLower(sf.Name)
}
