// File: lixenwraith/tagcli/paramfile.go
package tagcli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoaderFunc parses one parameter file into a record: a flat or nested
// mapping keyed by attribute names. Flat-format loaders may use dotted keys.
type LoaderFunc func(path string, s *Schema) (map[string]any, error)

// Loaders maps lower-cased file extensions (without the dot) to loader
// functions. The registry is explicit and injected per App; there is no
// inheritance-based lookup.
type Loaders map[string]LoaderFunc

// DefaultLoaders returns the built-in extension table.
func DefaultLoaders() Loaders {
	return Loaders{
		"json": loadJSON,
		"yaml": loadYAML,
		"yml":  loadYAML,
		"toml": loadTOML,
		"ini":  NewINILoader("root"),
		"conf": NewINILoader("root"),
		"cfg":  loadVars,
	}
}

// Register adds or replaces the loader for an extension. The extension is
// normalized to lower case with no leading dot.
func (l Loaders) Register(ext string, fn LoaderFunc) {
	l[strings.ToLower(strings.TrimPrefix(ext, "."))] = fn
}

// dispatch resolves a loader by file extension, case-insensitively. A
// missing loader is a named fatal error.
func (l Loaders) dispatch(path string) (LoaderFunc, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	fn, ok := l[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoLoader, ext)
	}
	return fn, nil
}

// loadJSON parses the file as a JSON object. Numbers stay as json.Number so
// precision survives until field coercion.
func loadJSON(path string, _ *Schema) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return record, nil
}

// loadYAML parses the file as a YAML mapping.
func loadYAML(path string, _ *Schema) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := make(map[string]any)
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return record, nil
}

// loadTOML parses the file as a TOML document.
func loadTOML(path string, _ *Schema) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := make(map[string]any)
	if err := toml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return record, nil
}

// NewINILoader builds an INI/CONF loader. Keys in the root section (and
// outside any section) address top-level attributes unprefixed; every other
// section's keys are prefixed with "sectionname.". Values are coerced by the
// target field's declared scalar kind, booleans through a boolean-string
// parser; keys with no matching configurable field are a fatal error.
func NewINILoader(rootSection string) LoaderFunc {
	return func(path string, s *Schema) (map[string]any, error) {
		file, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		flat := s.Flatten()
		record := make(map[string]any)
		for _, section := range file.Sections() {
			prefix := ""
			if name := section.Name(); name != ini.DefaultSection && name != rootSection {
				prefix = name + "."
			}
			for _, key := range section.Keys() {
				p := prefix + key.Name()
				f, ok := flat[p]
				if !ok {
					return nil, fmt.Errorf("%w: %q for %s", ErrUnknownKey, p, s.Type.Name())
				}
				v, err := coerceINIValue(f, key.String())
				if err != nil {
					return nil, err
				}
				record[p] = v
			}
		}
		return record, nil
	}
}

// coerceINIValue converts an INI string per the target field's kind. Fields
// without a simple scalar kind keep the raw text.
func coerceINIValue(f *Field, raw string) (any, error) {
	switch f.Kind {
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, typeError(f, raw, "bool")
		}
		return v, nil
	case KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, typeError(f, raw, "integer")
		}
		return v, nil
	case KindUint:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, typeError(f, raw, "unsigned integer")
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, typeError(f, raw, "float")
		}
		return v, nil
	case KindDuration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, typeError(f, raw, "duration")
		}
		return v, nil
	}
	return raw, nil
}

// loadVars parses the literal-only "key = expression" format that replaces
// executable configuration files. Right-hand sides use the restricted
// literal grammar; nothing is executed. Keys must be identifiers (dotted
// allowed); names that both start and end with an underscore are filtered
// out rather than loaded.
func loadVars(path string, _ *Schema) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	record := make(map[string]any)
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, expr, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", n+1, line)
		}
		key = strings.TrimSpace(key)
		if !isIdentifier(key) {
			return nil, fmt.Errorf("line %d: invalid key %q", n+1, key)
		}
		if strings.HasPrefix(key, "_") && strings.HasSuffix(key, "_") {
			continue
		}
		v, err := evalLiteral(strings.TrimSpace(expr), nil)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		record[key] = v
	}
	return record, nil
}

// loadParamfiles loads every parameter file referenced by a paramfile-tagged
// field on node, in field order. A field may hold a single path or a list of
// paths; list entries apply in order, later files overriding earlier ones.
func (a *App) loadParamfiles(node Runner) error {
	for _, f := range a.schema.Fields {
		if !f.Paramfile {
			continue
		}
		v, err := Get(node, f.Path)
		if err != nil {
			return err
		}
		for _, p := range paramfilePaths(v) {
			if p == "" {
				continue
			}
			if err := a.loadParamfile(node, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadParamfile dispatches on extension, loads, and merges one file.
// Failures are wrapped with the offending path.
func (a *App) loadParamfile(node Runner, path string) error {
	fn, err := a.loaders.dispatch(path)
	if err != nil {
		return &ParamfileError{Path: path, Err: err}
	}
	record, err := fn(path, a.schema)
	if err != nil {
		return &ParamfileError{Path: path, Err: err}
	}
	if err := a.applyRecord(node, record); err != nil {
		return &ParamfileError{Path: path, Err: err}
	}
	return nil
}

// applyRecord merges a loaded record into the node, restricted to
// configurable fields; any key without a matching leaf is fatal.
func (a *App) applyRecord(node Runner, record map[string]any) error {
	flat := make(map[string]any)
	if err := a.flattenRecord(record, "", flat); err != nil {
		return err
	}
	for _, p := range sortedByDepth(flat) {
		if err := Set(node, p, flat[p]); err != nil {
			return err
		}
	}
	return nil
}

// flattenRecord resolves record keys against the schema: a key matching a
// leaf records its value wholesale (so container-valued leaves keep their
// nested shape); a key matching a nested node descends; anything else is an
// unknown-key error.
func (a *App) flattenRecord(record map[string]any, prefix string, out map[string]any) error {
	for k, v := range record {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		f, ok := a.schema.byPath[p]
		if !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnknownKey, p, a.schema.Type.Name())
		}
		if f.Kind != KindNode {
			out[p] = v
			continue
		}
		sub, isMap := v.(map[string]any)
		if !isMap {
			return fmt.Errorf("key %q addresses nested node %s and must hold a mapping, got %T",
				p, f.Type, v)
		}
		if err := a.flattenRecord(sub, p, out); err != nil {
			return err
		}
	}
	return nil
}

// paramfilePaths normalizes a paramfile field value to a path list.
func paramfilePaths(v any) []string {
	switch pv := v.(type) {
	case string:
		return []string{pv}
	case []string:
		return pv
	}
	return nil
}
