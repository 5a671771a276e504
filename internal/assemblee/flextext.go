package assemblee

import (
	"encoding/json"
	"strings"
)

// flexText absorbs the three encodings the upstream dumps use for id-like
// fields: a plain string, a bare number, or an attribute object holding
// the value under "#text".
type flexText struct {
	Value string
}

func (t *flexText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		t.Value = ""
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var obj struct {
			Text string `json:"#text"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Value = obj.Text
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Value = s
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		t.Value = n.String()
		return nil
	}
}

func (t flexText) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}
