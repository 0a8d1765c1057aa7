package board

import (
	"encoding/json"
	"sort"
)

const (
	// trimMaxFields bounds the number of payload fields on a board card.
	trimMaxFields = 12

	// trimMaxValueLen bounds each string value on a board card.
	trimMaxValueLen = 256
)

// TrimLeadData reduces a raw submitted payload to a bounded projection for
// board display: scalar fields only, long strings truncated, field count
// capped. Callers needing the full payload fetch the lead individually.
// Malformed JSON never fails the board; it yields an empty object.
func TrimLeadData(raw string) map[string]any {
	out := map[string]any{}
	if raw == "" {
		return out
	}

	var full map[string]any
	if err := json.Unmarshal([]byte(raw), &full); err != nil {
		return out
	}

	keys := make([]string, 0, len(full))
	for k := range full {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if len(out) >= trimMaxFields {
			break
		}
		switch v := full[k].(type) {
		case string:
			if len(v) > trimMaxValueLen {
				v = v[:trimMaxValueLen]
			}
			out[k] = v
		case float64, bool:
			out[k] = v
		case nil:
			// Dropped: a null carries nothing worth a card slot.
		default:
			// Nested objects and arrays are what blow up response size;
			// they never make the board projection.
		}
	}
	return out
}
