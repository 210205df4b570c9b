// File: lixenwraith/tagcli/doc.go

// Package tagcli derives a complete command-line interface from a tagged
// struct schema: one flag per configurable field, dotted flags for nested
// command structs, subscript options for container-valued fields, and
// parameter files loaded before command-line overrides are applied.
//
// Features:
//   - Declarative schema via `cli` struct tags (desc, oneof, positional,
//     required, metavar, paramfile directives)
//   - Nested command structs expand to dotted flags (--server.port)
//   - Dict-like options mutate single container entries (--dict['k']=1)
//   - Parameter files in JSON, YAML, TOML, INI/CONF and a literal-only
//     key = value format, dispatched by extension
//   - Defined precedence: declared defaults < parameter files < command line
//   - Restricted literal evaluation for container values; no code execution
//   - Multi-command dispatch on the first positional token
//
// Quick Start:
//
//	type Serve struct {
//	    Host  string `cli:"host,desc='interface to bind'"`
//	    Port  int    `cli:"port"`
//	    Debug bool   `cli:"debug"`
//	}
//
//	func (s *Serve) Run() error {
//	    fmt.Printf("serving on %s:%d\n", s.Host, s.Port)
//	    return nil
//	}
//
//	func main() {
//	    tagcli.Main(&Serve{Host: "localhost", Port: 8080})
//	}
//
// Precedence (highest to lowest):
//  1. Command-line arguments (--port 9090, --db.host x, --dict['k']=1)
//  2. Parameter files named by paramfile-tagged fields
//  3. Declared defaults (the prototype's field values)
//
// A flag the user did not set never overwrites a parameter-file value; only
// flags actually present on the command line are applied.
package tagcli
