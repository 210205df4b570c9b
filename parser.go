// File: lixenwraith/tagcli/parser.go
package tagcli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// rawExpr marks a flag value that still needs restricted literal evaluation.
// Evaluation is deferred until application time so the namespace can carry
// the node's current attribute values.
type rawExpr string

// parser wraps a pflag.FlagSet built from a schema. One flag per leaf field,
// dotted names for nested leaves; positional fields bind from the remaining
// arguments in declaration order.
type parser struct {
	schema      *Schema
	fs          *pflag.FlagSet
	positionals []*Field
}

func newParser(name string, s *Schema) *parser {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	p := &parser{schema: s, fs: fs}
	for _, f := range s.Fields {
		if f.Positional {
			p.positionals = append(p.positionals, f)
			continue
		}
		p.addFlag(f)
	}
	return p
}

// addFlag registers one leaf field. The registered defaults are placeholders:
// only flags the user actually set are collected after parsing, so a flag
// the user left alone never clobbers a paramfile-sourced value.
func (p *parser) addFlag(f *Field) {
	usage := flagUsage(f)
	switch f.Kind {
	case KindBool:
		// Bare presence negates the declared default; the explicit
		// --name=value spelling is honored as given.
		def, _ := f.Default.(bool)
		p.fs.Bool(f.Path, def, usage)
		p.fs.Lookup(f.Path).NoOptDefVal = strconv.FormatBool(!def)
	case KindInt:
		p.fs.Int64(f.Path, 0, usage)
	case KindUint:
		p.fs.Uint64(f.Path, 0, usage)
	case KindFloat:
		p.fs.Float64(f.Path, 0, usage)
	case KindDuration:
		p.fs.Duration(f.Path, 0, usage)
	default:
		// Strings, enums, and expression-valued fields all travel as text.
		p.fs.String(f.Path, "", usage)
	}
}

// flagUsage renders the help line: description, metavar placeholder, the
// declared default, and the choice set for enums.
func flagUsage(f *Field) string {
	var b strings.Builder
	if f.Desc != "" {
		b.WriteString(f.Desc)
		b.WriteByte(' ')
	}
	if f.Metavar != "" {
		fmt.Fprintf(&b, "`%s` ", f.Metavar)
	}
	fmt.Fprintf(&b, "(default: %v)", f.Default)
	if len(f.Choices) > 0 {
		fmt.Fprintf(&b, " (choices: %s)", strings.Join(f.Choices, ", "))
	}
	return b.String()
}

// parse runs the flag set over args and returns only the values the user
// supplied, keyed by dotted path. Unset flags are absent from the result.
func (p *parser) parse(args []string) (map[string]any, error) {
	if err := p.fs.Parse(args); err != nil {
		return nil, err
	}

	kwds := make(map[string]any)
	for _, f := range p.schema.Fields {
		if f.Positional || !p.fs.Changed(f.Path) {
			continue
		}
		v, err := p.flagValue(f)
		if err != nil {
			return nil, err
		}
		kwds[f.Path] = v
	}

	if err := p.bindPositionals(p.fs.Args(), kwds); err != nil {
		return nil, err
	}

	for _, f := range p.schema.Fields {
		if f.Required && !f.Positional && !p.fs.Changed(f.Path) {
			return nil, fmt.Errorf("%w: --%s", ErrMissingRequired, f.Path)
		}
	}
	return kwds, nil
}

// flagValue extracts one changed flag's typed value.
func (p *parser) flagValue(f *Field) (any, error) {
	switch f.Kind {
	case KindBool:
		return p.fs.GetBool(f.Path)
	case KindInt:
		return p.fs.GetInt64(f.Path)
	case KindUint:
		return p.fs.GetUint64(f.Path)
	case KindFloat:
		return p.fs.GetFloat64(f.Path)
	case KindDuration:
		return p.fs.GetDuration(f.Path)
	case KindEnum:
		v, err := p.fs.GetString(f.Path)
		if err != nil {
			return nil, err
		}
		return v, validateChoice(f, v)
	default:
		v, err := p.fs.GetString(f.Path)
		if err != nil {
			return nil, err
		}
		if f.Kind == KindString {
			return v, nil
		}
		return rawExpr(v), nil
	}
}

// bindPositionals consumes the non-flag tokens in declaration order.
// Positional fields are mandatory; surplus tokens are an error.
func (p *parser) bindPositionals(rem []string, kwds map[string]any) error {
	if len(rem) > len(p.positionals) {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(rem[len(p.positionals):], " "))
	}
	for i, f := range p.positionals {
		if i >= len(rem) {
			return fmt.Errorf("%w: %s", ErrMissingRequired, f.Path)
		}
		v, err := coerceToken(f, rem[i])
		if err != nil {
			return err
		}
		kwds[f.Path] = v
	}
	return nil
}

// coerceToken converts one positional token per the field's declared kind.
// Failures name the field, the offending text, and the expected type.
func coerceToken(f *Field, tok string) (any, error) {
	switch f.Kind {
	case KindBool:
		v, err := strconv.ParseBool(tok)
		if err != nil {
			return nil, typeError(f, tok, "bool")
		}
		return v, nil
	case KindInt:
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, typeError(f, tok, "integer")
		}
		return v, nil
	case KindUint:
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, typeError(f, tok, "unsigned integer")
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, typeError(f, tok, "float")
		}
		return v, nil
	case KindDuration:
		v, err := time.ParseDuration(tok)
		if err != nil {
			return nil, typeError(f, tok, "duration")
		}
		return v, nil
	case KindEnum:
		return tok, validateChoice(f, tok)
	case KindString:
		return tok, nil
	}
	return rawExpr(tok), nil
}

func typeError(f *Field, tok, want string) error {
	return fmt.Errorf("invalid argument %q for %q: expected %s", tok, f.Path, want)
}

func validateChoice(f *Field, v string) error {
	if slices.Contains(f.Choices, v) {
		return nil
	}
	return fmt.Errorf("%w %q for --%s (choose from %s)",
		ErrChoice, v, f.Path, strings.Join(f.Choices, ", "))
}
