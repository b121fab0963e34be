package main

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// render writes v as YAML or JSON when requested, otherwise calls text.
func (a *app) render(v any, text func(w io.Writer)) error {
	switch a.output {
	case formatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		text(a.out)
		return nil
	}
}
