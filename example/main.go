// File: lixenwraith/tagcli/example/main.go

// Sample CLI built with tagcli.
//
//	go run ./example --yes                # yes = true
//	go run ./example --string something   # string = "something"
//	go run ./example --choice x           # error: x is not one of a, b, c
//	go run ./example --params demo.json   # defaults loaded from demo.json
package main

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/tagcli"
)

type Sample struct {
	Yes    bool           `cli:"yes,desc='yes flag for the sample CLI'"`
	No     bool           `cli:"no"`
	Fnum   float64        `cli:"fnum"`
	Inum   int            `cli:"inum"`
	Str    string         `cli:"string"`
	Choice string         `cli:"choice,oneof=a|b|c"`
	Tags   map[string]int `cli:"tags,desc='counters, settable via --tags[name]=n'"`
	Params string         `cli:"params,paramfile,desc='parameter file with defaults'"`

	// Internal state, not settable from the command line.
	invocations int
}

func (s *Sample) Run() error {
	s.invocations++
	values := map[string]any{
		"yes": s.Yes, "no": s.No, "fnum": s.Fnum, "inum": s.Inum,
		"string": s.Str, "choice": s.Choice, "tags": s.Tags,
	}
	names := make([]string, 0, len(values))
	width := 0
	for n := range values {
		names = append(names, n)
		if len(n) > width {
			width = len(n)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("%-*s : %#v\n", width, n, values[n])
	}
	return nil
}

func main() {
	tagcli.Main(&Sample{No: true, Choice: "a"})
}
