// File: lixenwraith/tagcli/run.go
package tagcli

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Runner is the action entry point of a command struct, invoked once
// construction and option application are complete.
type Runner interface {
	Run() error
}

// App binds one command struct's schema, flag specification, and paramfile
// loader registry. Each invocation constructs its own node; an App holds no
// per-invocation state and may be reused.
type App struct {
	name      string
	prototype reflect.Value // struct value carrying the declared defaults
	schema    *Schema
	loaders   Loaders
	output    io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithName overrides the command name used in usage output.
func WithName(name string) Option {
	return func(a *App) { a.name = name }
}

// WithLoaders replaces the paramfile loader registry.
func WithLoaders(l Loaders) Option {
	return func(a *App) { a.loaders = l }
}

// WithOutput redirects usage and flag-error output.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.output = w }
}

// New parses the prototype's schema and prepares an App. The prototype must
// be a struct pointer; its current field values become the declared defaults.
func New(prototype Runner, opts ...Option) (*App, error) {
	pv := reflect.ValueOf(prototype)
	if pv.Kind() != reflect.Ptr || pv.IsNil() {
		return nil, fmt.Errorf("prototype must be a non-nil struct pointer, got %T", prototype)
	}
	schema, err := ParseSchema(prototype)
	if err != nil {
		return nil, err
	}
	proto := reflect.New(schema.Type).Elem()
	proto.Set(pv.Elem())
	a := &App{
		name:      strings.ToLower(schema.Type.Name()),
		prototype: proto,
		schema:    schema,
		loaders:   DefaultLoaders(),
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Schema exposes the parsed field descriptors.
func (a *App) Schema() *Schema { return a.schema }

// Run executes the full pipeline on args: pre-parse dict-like options, parse
// the remaining tokens, construct the node from paramfile-bearing values,
// load parameter files, apply the remaining command-line values, apply
// dict-like options, and invoke the node's action. Every failure funnels to
// the returned error.
func (a *App) Run(args []string) (Runner, error) {
	dictOpts, rest, err := splitDictArgs(args)
	if err != nil {
		return nil, err
	}

	p := newParser(a.name, a.schema)
	if a.output != nil {
		p.fs.SetOutput(a.output)
	}
	kwds, err := p.parse(rest)
	if err != nil {
		return nil, err
	}

	// Separate paramfile-bearing values so the file paths are known before
	// any file is read.
	filekwds := make(map[string]any)
	regular := make(map[string]any)
	for path, v := range kwds {
		if f, ok := a.schema.byPath[path]; ok && f.Paramfile {
			filekwds[path] = v
		} else {
			regular[path] = v
		}
	}

	node, err := a.Construct(filekwds)
	if err != nil {
		return nil, err
	}
	if err := a.loadParamfiles(node); err != nil {
		return nil, err
	}
	if err := a.applyKwds(node, regular); err != nil {
		return nil, err
	}
	if err := a.applyDictOpts(node, dictOpts); err != nil {
		return nil, err
	}
	if err := node.Run(); err != nil {
		return nil, err
	}
	return node, nil
}

// Construct builds a fresh node from the declared defaults and applies the
// given initial values. Keys may be dotted; shallower keys apply first.
func (a *App) Construct(values map[string]any) (Runner, error) {
	node := a.newNode()
	if err := a.applyKwds(node, values); err != nil {
		return nil, err
	}
	return node, nil
}

// newNode clones the prototype, allocates nested node pointers, and copies
// container-valued leaves so invocations never share nested state or backing
// storage. Decoding merges into containers in place, so a shared map or slice
// would leak one invocation's values into the declared defaults.
func (a *App) newNode() Runner {
	pv := reflect.New(a.schema.Type)
	pv.Elem().Set(a.prototype)
	for _, nf := range a.schema.Nodes {
		fv := pv.Elem().FieldByIndex(nf.Index)
		if fv.Kind() != reflect.Ptr {
			continue
		}
		fresh := reflect.New(fv.Type().Elem())
		if !fv.IsNil() {
			fresh.Elem().Set(fv.Elem())
		}
		fv.Set(fresh)
	}
	for _, f := range a.schema.Fields {
		fv := pv.Elem().FieldByIndex(f.Index)
		if c := cloneContainer(fv); c.IsValid() {
			fv.Set(c)
		}
	}
	return pv.Interface().(Runner)
}

// cloneContainer returns a fresh copy of a map or slice value, or an invalid
// value when v needs no copy. Interface-typed fields clone their dynamic
// value.
func cloneContainer(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Value{}
		}
		return cloneContainer(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return reflect.Value{}
		}
		m := reflect.MakeMap(v.Type())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), iter.Value())
		}
		return m
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Value{}
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(s, v)
		return s
	}
	return reflect.Value{}
}

// applyKwds applies dotted-path values shallow before deep, so a
// nested-node replacement never overwrites a deeper key applied earlier.
// Deferred expressions evaluate against the node's current attribute values.
func (a *App) applyKwds(node Runner, kwds map[string]any) error {
	for _, path := range sortedByDepth(kwds) {
		v := kwds[path]
		if re, ok := v.(rawExpr); ok {
			ev, err := evalLiteral(string(re), a.currentNamespace(node))
			if err != nil {
				return err
			}
			v = ev
		}
		if err := Set(node, path, v); err != nil {
			return err
		}
	}
	return nil
}

// currentNamespace snapshots the node's configurable attribute values keyed
// by dotted path, for use as the restricted evaluation namespace.
func (a *App) currentNamespace(node Runner) map[string]any {
	ns := make(map[string]any, len(a.schema.Fields))
	for _, f := range a.schema.Fields {
		if v, err := Get(node, f.Path); err == nil {
			ns[f.Path] = v
		}
	}
	return ns
}

// applyDictOpts resolves and applies subscript assignments. Unknown root
// names aggregate into a single error listing every offending option.
func (a *App) applyDictOpts(node Runner, opts []DictOpt) error {
	if len(opts) == 0 {
		return nil
	}
	flat := a.schema.Flatten()
	ns := a.currentNamespace(node)

	type target struct {
		f    *Field
		keys []any
		opt  DictOpt
	}
	var todo []target
	var unknown []string
	for _, o := range opts {
		root, keys, err := parseSubscript(o.Subscript, ns)
		if err != nil {
			return err
		}
		f, ok := flat[root]
		if !ok {
			unknown = append(unknown, o.String())
			continue
		}
		todo = append(todo, target{f: f, keys: keys, opt: o})
	}
	if len(unknown) > 0 {
		return &UnknownOptionError{Options: unknown}
	}

	for _, tg := range todo {
		value, err := a.dictOptValue(tg.f, len(tg.keys), tg.opt, ns)
		if err != nil {
			return err
		}
		cur, err := Get(node, tg.f.Path)
		if err != nil {
			return err
		}
		updated, err := setSubscript(cur, tg.f.Type, tg.keys, value)
		if err != nil {
			return fmt.Errorf("%s: %w", tg.opt, err)
		}
		if err := Set(node, tg.f.Path, updated); err != nil {
			return err
		}
	}
	return nil
}

// dictOptValue produces the right-hand-side value for one subscript
// assignment. String-like element kinds take the raw text without requiring
// quotes; everything else must be a valid restricted expression.
func (a *App) dictOptValue(f *Field, depth int, opt DictOpt, ns map[string]any) (any, error) {
	if et := subscriptElemType(f.Type, depth); et != nil && et.Kind() == reflect.String {
		return opt.Value, nil
	}
	return evalLiteral(opt.Value, ns)
}

// subscriptElemType walks a container type through depth subscript levels
// and returns the element type, or nil when it cannot be determined
// statically (interface-typed fields or elements).
func subscriptElemType(t reflect.Type, depth int) reflect.Type {
	for i := 0; i < depth; i++ {
		switch t.Kind() {
		case reflect.Map, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return nil
		}
	}
	return t
}

// setSubscript returns a copy of the container with the value assigned at
// the key chain. Containers are cloned rather than mutated so declared
// defaults stay intact across invocations.
func setSubscript(cur any, t reflect.Type, keys []any, value any) (any, error) {
	et := t
	rv := reflect.ValueOf(cur)
	if et.Kind() == reflect.Interface {
		if rv.IsValid() && !rv.IsZero() {
			et = rv.Type()
		} else {
			// untyped field with no current container: start a fresh mapping
			et = reflect.TypeOf(map[any]any{})
		}
	}

	switch et.Kind() {
	case reflect.Map:
		m := reflect.MakeMap(et)
		if rv.IsValid() && rv.Kind() == reflect.Map && !rv.IsNil() {
			iter := rv.MapRange()
			for iter.Next() {
				m.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		kv, err := coerceTo(keys[0], et.Key())
		if err != nil {
			return nil, fmt.Errorf("bad map key %v: %w", keys[0], err)
		}
		ev, err := subscriptLeafValue(m.MapIndex(reflect.ValueOf(kv)), et.Elem(), keys, value)
		if err != nil {
			return nil, err
		}
		m.SetMapIndex(reflect.ValueOf(kv), ev)
		return m.Interface(), nil

	case reflect.Slice:
		if !rv.IsValid() || rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("cannot index a missing sequence")
		}
		i, ok := intKey(keys[0])
		if !ok {
			return nil, fmt.Errorf("index %v is not an integer", keys[0])
		}
		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range (len %d)", i, rv.Len())
		}
		sl := reflect.MakeSlice(et, rv.Len(), rv.Len())
		reflect.Copy(sl, rv)
		ev, err := subscriptLeafValue(sl.Index(i), et.Elem(), keys, value)
		if err != nil {
			return nil, err
		}
		sl.Index(i).Set(ev)
		return sl.Interface(), nil
	}
	return nil, fmt.Errorf("value of type %s is not subscriptable", t)
}

// subscriptLeafValue resolves the value to store at the current level:
// either the coerced right-hand side, or the recursively updated inner
// container when more keys remain.
func subscriptLeafValue(existing reflect.Value, elem reflect.Type, keys []any, value any) (reflect.Value, error) {
	if len(keys) > 1 {
		var inner any
		if existing.IsValid() {
			inner = existing.Interface()
		}
		res, err := setSubscript(inner, elem, keys[1:], value)
		if err != nil {
			return reflect.Value{}, err
		}
		value = res
	}
	ev, err := coerceTo(value, elem)
	if err != nil {
		return reflect.Value{}, err
	}
	if ev == nil {
		return reflect.Zero(elem), nil
	}
	return reflect.ValueOf(ev), nil
}
