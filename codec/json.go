package codec

import "encoding/json"

// JSON encodes reports with encoding/json. It is the reference the other
// codecs are checked against.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json", the value of --format that selects it.
func (JSON) Name() string { return "json" }
