// File: lixenwraith/tagcli/literal.go
package tagcli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Restricted expression evaluation for container-valued flags and dict-like
// options. The grammar covers literals (numbers, quoted strings, booleans,
// nil), list and map literals, identifiers resolved in a caller-supplied
// namespace, and subscript chains. Nothing is ever executed.

// evalLiteral parses and evaluates expr against ns. Identifiers may be
// dotted attribute paths. Any construct outside the grammar is an EvalError.
func evalLiteral(expr string, ns map[string]any) (any, error) {
	e := &evaluator{src: expr, ns: ns}
	v, err := e.parseExpr()
	if err == nil {
		e.skipSpace()
		if e.pos != len(e.src) {
			err = fmt.Errorf("unexpected %q at offset %d", e.src[e.pos], e.pos)
		}
	}
	if err != nil {
		return nil, &EvalError{Expr: expr, Err: err}
	}
	return v, nil
}

type evaluator struct {
	src string
	pos int
	ns  map[string]any
}

func (e *evaluator) skipSpace() {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t') {
		e.pos++
	}
}

func (e *evaluator) peek() (byte, bool) {
	e.skipSpace()
	if e.pos >= len(e.src) {
		return 0, false
	}
	return e.src[e.pos], true
}

func (e *evaluator) expect(c byte) error {
	got, ok := e.peek()
	if !ok {
		return fmt.Errorf("expected %q, found end of expression", c)
	}
	if got != c {
		return fmt.Errorf("expected %q at offset %d, found %q", c, e.pos, got)
	}
	e.pos++
	return nil
}

func (e *evaluator) parseExpr() (any, error) {
	c, ok := e.peek()
	if !ok {
		return nil, fmt.Errorf("empty expression")
	}
	switch {
	case c == '[':
		return e.parseList()
	case c == '{':
		return e.parseMap()
	case c == '\'' || c == '"':
		return e.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return e.parseNumber()
	case isIdentByte(c):
		return e.parseIdent()
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", c, e.pos)
}

func (e *evaluator) parseList() (any, error) {
	if err := e.expect('['); err != nil {
		return nil, err
	}
	list := []any{}
	for {
		if c, ok := e.peek(); ok && c == ']' {
			e.pos++
			return list, nil
		}
		item, err := e.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, item)
		c, ok := e.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated list")
		}
		if c == ',' {
			e.pos++
			continue
		}
		if c != ']' {
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", e.pos)
		}
	}
}

func (e *evaluator) parseMap() (any, error) {
	if err := e.expect('{'); err != nil {
		return nil, err
	}
	m := map[any]any{}
	for {
		if c, ok := e.peek(); ok && c == '}' {
			e.pos++
			return m, nil
		}
		key, err := e.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := e.expect(':'); err != nil {
			return nil, err
		}
		value, err := e.parseExpr()
		if err != nil {
			return nil, err
		}
		m[key] = value
		c, ok := e.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated map")
		}
		if c == ',' {
			e.pos++
			continue
		}
		if c != '}' {
			return nil, fmt.Errorf("expected ',' or '}' at offset %d", e.pos)
		}
	}
}

func (e *evaluator) parseString() (string, error) {
	quote := e.src[e.pos]
	e.pos++
	var b strings.Builder
	for e.pos < len(e.src) {
		c := e.src[e.pos]
		switch c {
		case quote:
			e.pos++
			return b.String(), nil
		case '\\':
			e.pos++
			if e.pos >= len(e.src) {
				return "", fmt.Errorf("unterminated escape in string")
			}
			switch e.src[e.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e.src[e.pos])
			}
			e.pos++
		default:
			b.WriteByte(c)
			e.pos++
		}
	}
	return "", fmt.Errorf("unterminated string literal")
}

func (e *evaluator) parseNumber() (any, error) {
	start := e.pos
	if c := e.src[e.pos]; c == '-' || c == '+' {
		e.pos++
	}
	for e.pos < len(e.src) {
		c := e.src[e.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
			((c == '-' || c == '+') && (e.src[e.pos-1] == 'e' || e.src[e.pos-1] == 'E')) {
			e.pos++
			continue
		}
		break
	}
	text := e.src[start:e.pos]
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}

// parseIdent resolves a keyword or a namespace identifier, then applies any
// trailing subscript chain.
func (e *evaluator) parseIdent() (any, error) {
	name := e.scanIdent()
	var v any
	switch name {
	case "true", "True":
		v = true
	case "false", "False":
		v = false
	case "nil", "None":
		v = nil
	default:
		var ok bool
		v, ok = e.ns[name]
		if !ok {
			return nil, fmt.Errorf("undefined name %q", name)
		}
	}
	for {
		c, ok := e.peek()
		if !ok || c != '[' {
			return v, nil
		}
		e.pos++
		key, err := e.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := e.expect(']'); err != nil {
			return nil, err
		}
		v, err = indexValue(v, key)
		if err != nil {
			return nil, err
		}
	}
}

// scanIdent consumes a dotted identifier.
func (e *evaluator) scanIdent() string {
	start := e.pos
	for e.pos < len(e.src) && (isIdentByte(e.src[e.pos]) || e.src[e.pos] == '.') {
		e.pos++
	}
	return e.src[start:e.pos]
}

func isIdentByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

// indexValue subscripts a container value held in the namespace. Maps accept
// any key the map's key type can represent; slices, arrays, and strings
// require an integer index in range.
func indexValue(container, key any) (any, error) {
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		kv, err := coerceTo(key, rv.Type().Key())
		if err != nil {
			return nil, fmt.Errorf("bad map key %v: %w", key, err)
		}
		item := rv.MapIndex(reflect.ValueOf(kv))
		if !item.IsValid() {
			return nil, fmt.Errorf("key %v not present", key)
		}
		return item.Interface(), nil
	case reflect.Slice, reflect.Array, reflect.String:
		i, ok := intKey(key)
		if !ok {
			return nil, fmt.Errorf("index %v is not an integer", key)
		}
		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range (len %d)", i, rv.Len())
		}
		item := rv.Index(i)
		if rv.Kind() == reflect.String {
			return string(item.Interface().(byte)), nil
		}
		return item.Interface(), nil
	}
	return nil, fmt.Errorf("value of type %T is not subscriptable", container)
}

func intKey(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case float64:
		if k == float64(int(k)) {
			return int(k), true
		}
	}
	return 0, false
}
