package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes reports with github.com/goccy/go-json. It is the default
// because record listings can hold the whole sorted export.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json", the value of --format that selects it.
func (GoJSON) Name() string { return "go-json" }
