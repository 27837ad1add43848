package workspace

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"codedom/internal/types"
)

// A source unit describes the declarations of one compilation unit:
//
//	file   = "src/Widget.cs"
//	usings = ["System", "System.Collections.Generic"]
//
//	[[types]]
//	name      = "Acme.Widget"
//	modifiers = "public"
//	bases     = ["Acme.Base"]
//	region    = [3, 1, 40, 2]
//
//	  [[types.members]]
//	  kind   = "method"
//	  name   = "Run"
//	  type   = "List<string>"
//	  params = [{ name = "count", type = "int" }]
//	  locals = [{ name = "names", type = "string[]", region = [7, 9, 7, 14] }]
//
// Nested types are nested under [[types.nested]] with short names.
type unitFile struct {
	File    string            `toml:"file"`
	Usings  []string          `toml:"usings"`
	Aliases map[string]string `toml:"aliases"`
	Types   []typeSpec        `toml:"types"`
}

type typeSpec struct {
	Name       string       `toml:"name"`
	Kind       string       `toml:"kind"`
	Modifiers  string       `toml:"modifiers"`
	TypeParams []string     `toml:"type_params"`
	Bases      []string     `toml:"bases"`
	Region     []int        `toml:"region"`
	Members    []memberSpec `toml:"members"`
	Nested     []typeSpec   `toml:"nested"`
}

type memberSpec struct {
	Kind       string    `toml:"kind"`
	Name       string    `toml:"name"`
	Modifiers  string    `toml:"modifiers"`
	Type       string    `toml:"type"`
	TypeParams []string  `toml:"type_params"`
	Params     []varSpec `toml:"params"`
	Locals     []varSpec `toml:"locals"`
	Region     []int     `toml:"region"`
}

type varSpec struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Region []int  `toml:"region"`
}

func decodeUnit(path string) (*unitFile, error) {
	var u unitFile
	if _, err := toml.DecodeFile(path, &u); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if u.File == "" {
		return nil, fmt.Errorf("%s: missing file", path)
	}
	return &u, nil
}

func parseRegion(r []int) (types.Region, error) {
	switch len(r) {
	case 0:
		return types.Region{}, nil
	case 2:
		return types.Region{BeginLine: r[0], BeginColumn: r[1]}, nil
	case 4:
		return types.Region{BeginLine: r[0], BeginColumn: r[1], EndLine: r[2], EndColumn: r[3]}, nil
	default:
		return types.Region{}, fmt.Errorf("region needs 2 or 4 numbers, got %d", len(r))
	}
}
