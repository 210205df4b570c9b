// File: lixenwraith/tagcli/schema.go
package tagcli

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Kind classifies how a schema field is parsed from the command line and how
// loaded values are applied to it.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindDuration
	KindString
	KindEnum
	KindMap
	KindSlice
	KindNode
	KindExpr
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindDuration:
		return "duration"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindMap:
		return "map"
	case KindSlice:
		return "slice"
	case KindNode:
		return "node"
	case KindExpr:
		return "expr"
	}
	return "invalid"
}

// Field describes one configurable attribute of a command struct.
type Field struct {
	Name       string       // attribute name within its node
	Path       string       // dotted path from the root struct
	Index      []int        // reflect field index chain from the root
	Type       reflect.Type // declared Go type
	Kind       Kind
	Default    any      // value captured from the prototype struct
	Desc       string   // help text
	Metavar    string   // usage placeholder
	Choices    []string // allowed values for KindEnum
	Positional bool
	Required   bool
	Paramfile  bool
}

// Depth returns the nesting depth of the field's dotted path. Top-level
// fields have depth zero.
func (f *Field) Depth() int {
	return strings.Count(f.Path, ".")
}

// Schema is the parsed set of configurable fields for one command struct.
// Fields holds leaves in declaration order; positional binding relies on it.
type Schema struct {
	Type   reflect.Type // root struct type (not pointer)
	Fields []*Field     // leaf fields, declaration order
	Nodes  []*Field     // nested node fields, shallow first
	byPath map[string]*Field
}

// ParseSchema builds the schema for a command struct. The prototype may be a
// struct or a pointer to one; its field values become the declared defaults.
// Fields without a `cli` tag (or tagged "-") are not configurable. Fields
// whose type is a struct or *struct recurse, their children addressed by
// dotted paths.
func ParseSchema(prototype any) (*Schema, error) {
	v := reflect.ValueOf(prototype)
	if !v.IsValid() {
		return nil, fmt.Errorf("schema prototype must be a struct, got nil")
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("schema prototype must be a non-nil struct pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema prototype must be a struct, got %T", prototype)
	}

	s := &Schema{
		Type:   v.Type(),
		byPath: make(map[string]*Field),
	}
	if err := s.parseFields(v, "", nil); err != nil {
		return nil, err
	}
	return s, nil
}

// parseFields walks one struct level, appending leaf descriptors and
// recursing into nested node fields.
func (s *Schema) parseFields(v reflect.Value, prefix string, index []int) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("cli")
		if tag == "" || tag == "-" {
			continue
		}

		d, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		name := d.name
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		if !isValidKeySegment(name) {
			return fmt.Errorf("field %s.%s: invalid attribute name %q", t.Name(), sf.Name, name)
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if _, dup := s.byPath[path]; dup {
			return fmt.Errorf("duplicate attribute path %q on %s", path, s.Type.Name())
		}

		idx := append(append([]int(nil), index...), i)
		fv := v.Field(i)

		// Nested command structs expand in place rather than becoming a leaf.
		if node, nv := nodeValue(sf.Type, fv); node != nil {
			f := &Field{
				Name:  name,
				Path:  path,
				Index: idx,
				Type:  sf.Type,
				Kind:  KindNode,
				Desc:  d.desc,
			}
			s.Nodes = append(s.Nodes, f)
			s.byPath[path] = f
			if err := s.parseFields(nv, path, idx); err != nil {
				return err
			}
			continue
		}

		kind, err := fieldKind(sf.Type, d)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
		}
		f := &Field{
			Name:       name,
			Path:       path,
			Index:      idx,
			Type:       sf.Type,
			Kind:       kind,
			Default:    fv.Interface(),
			Desc:       d.desc,
			Metavar:    d.metavar,
			Choices:    d.choices,
			Positional: d.positional,
			Required:   d.required,
			Paramfile:  d.paramfile,
		}
		s.Fields = append(s.Fields, f)
		s.byPath[path] = f
	}
	return nil
}

// nodeValue reports whether t is a nested node type (struct or *struct,
// excluding time.Time) and returns the value to recurse into. Nil pointers
// recurse into a zero value so their children still carry defaults.
func nodeValue(t reflect.Type, v reflect.Value) (reflect.Type, reflect.Value) {
	d := t
	if d.Kind() == reflect.Ptr {
		d = d.Elem()
	}
	if d.Kind() != reflect.Struct || d == reflect.TypeOf(time.Time{}) {
		return nil, reflect.Value{}
	}
	if t.Kind() == reflect.Ptr {
		if v.IsNil() {
			return d, reflect.New(d).Elem()
		}
		return d, v.Elem()
	}
	return d, v
}

var durationType = reflect.TypeOf(time.Duration(0))

// fieldKind maps a leaf field's Go type and tag directives to a Kind.
func fieldKind(t reflect.Type, d tagDirectives) (Kind, error) {
	if d.paramfile {
		switch {
		case t.Kind() == reflect.String:
			return KindString, nil
		case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
			return KindSlice, nil
		}
		return KindInvalid, fmt.Errorf("paramfile field must be string or []string, got %s", t)
	}
	if len(d.choices) > 0 {
		if t.Kind() != reflect.String {
			return KindInvalid, fmt.Errorf("oneof requires a string field, got %s", t)
		}
		return KindEnum, nil
	}
	if t == durationType {
		return KindDuration, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, nil
	case reflect.Float32, reflect.Float64:
		return KindFloat, nil
	case reflect.String:
		return KindString, nil
	case reflect.Map:
		return KindMap, nil
	case reflect.Slice:
		return KindSlice, nil
	case reflect.Interface:
		return KindExpr, nil
	}
	return KindInvalid, fmt.Errorf("unsupported field type %s", t)
}

// Lookup returns the field registered at a dotted path, including node
// fields.
func (s *Schema) Lookup(path string) (*Field, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// Flatten returns the leaf fields keyed by dotted path. Paths are unique by
// construction, so the mapping is injective.
func (s *Schema) Flatten() map[string]*Field {
	flat := make(map[string]*Field, len(s.Fields))
	for _, f := range s.Fields {
		flat[f.Path] = f
	}
	return flat
}

// tagDirectives holds the parsed `cli` tag of one field.
type tagDirectives struct {
	name       string
	desc       string
	metavar    string
	choices    []string
	positional bool
	required   bool
	paramfile  bool
}

// parseTag parses a `cli` struct tag. The first directive is the attribute
// name when it carries no '='. Value directives: desc='...', metavar=X,
// oneof=a|b|c. Boolean directives: positional, required, paramfile.
func parseTag(tag string) (tagDirectives, error) {
	var d tagDirectives
	for i, part := range splitDirectives(tag) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		if !hasValue && i == 0 && !isBoolDirective(key) {
			d.name = key
			continue
		}
		switch key {
		case "desc":
			d.desc = strings.Trim(value, "'")
		case "metavar":
			d.metavar = value
		case "oneof":
			d.choices = strings.Split(value, "|")
		case "positional":
			d.positional = true
		case "required":
			d.required = true
		case "paramfile":
			d.paramfile = true
		default:
			return d, fmt.Errorf("unknown tag directive %q", key)
		}
	}
	return d, nil
}

func isBoolDirective(s string) bool {
	switch s {
	case "positional", "required", "paramfile":
		return true
	}
	return false
}

// splitDirectives splits a tag on commas, honoring single-quoted values so
// descriptions may contain commas.
func splitDirectives(tag string) []string {
	var parts []string
	var b strings.Builder
	quoted := false
	for _, r := range tag {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == ',' && !quoted:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	parts = append(parts, b.String())
	return parts
}
