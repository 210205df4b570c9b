// File: lixenwraith/tagcli/dictopt.go
package tagcli

import (
	"fmt"
	"strings"
)

// DictOpt is one pre-parsed subscript assignment targeting a container-valued
// field, e.g. --dict['a']=1 or --sub.map["k"] value.
type DictOpt struct {
	Subscript string // name[key]... with the -- prefix stripped
	Value     string // raw right-hand side text
}

func (o DictOpt) String() string {
	return "--" + o.Subscript + "=" + o.Value
}

// isDictArg reports whether a raw token uses the subscript assignment form:
// a -- prefix, an alphabetic third byte, and a '[' somewhere in the token.
func isDictArg(tok string) bool {
	if len(tok) < 3 || !strings.HasPrefix(tok, "--") {
		return false
	}
	c := tok[2]
	alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return alpha && strings.Contains(tok, "[")
}

// splitDictArgs scans raw argument tokens before flag parsing, separating
// subscript assignments from the ordinary token stream. Ordinary tokens keep
// their relative order. A subscript token without '=' consumes the following
// token as its value; a trailing key with nothing to consume is a fatal
// ErrDanglingOption.
func splitDictArgs(args []string) ([]DictOpt, []string, error) {
	var opts []DictOpt
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if !isDictArg(tok) {
			rest = append(rest, tok)
			continue
		}
		body := tok[2:]
		if sub, value, found := strings.Cut(body, "="); found {
			opts = append(opts, DictOpt{Subscript: sub, Value: value})
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDanglingOption, tok)
		}
		i++
		opts = append(opts, DictOpt{Subscript: body, Value: args[i]})
	}
	return opts, rest, nil
}

// parseSubscript splits a subscript expression into its root attribute path
// and the evaluated key chain. Key expressions are evaluated against ns.
func parseSubscript(sub string, ns map[string]any) (string, []any, error) {
	e := &evaluator{src: sub, ns: ns}
	root := e.scanIdent()
	if root == "" || !isIdentifier(root) {
		return "", nil, &EvalError{Expr: sub, Err: fmt.Errorf("invalid attribute name %q", root)}
	}
	var keys []any
	for {
		c, ok := e.peek()
		if !ok {
			break
		}
		if c != '[' {
			return "", nil, &EvalError{Expr: sub, Err: fmt.Errorf("unexpected %q at offset %d", c, e.pos)}
		}
		e.pos++
		key, err := e.parseExpr()
		if err != nil {
			return "", nil, &EvalError{Expr: sub, Err: err}
		}
		if err := e.expect(']'); err != nil {
			return "", nil, &EvalError{Expr: sub, Err: err}
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return "", nil, &EvalError{Expr: sub, Err: fmt.Errorf("missing subscript")}
	}
	return root, keys, nil
}
