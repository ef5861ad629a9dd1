package parse

import (
	"encoding/json"
)

// ValidateExport is a cheap structural probe, not full schema validation.
// The decoded value must be an array (an empty array is a valid, no-op
// export); each of the first few records must be an object carrying both a
// mapping and a create_time key. Per-record anomalies deeper in the file
// are handled by the bulk parse step, which drops them silently.
func ValidateExport(records []json.RawMessage) bool {
	samples := len(records)
	if samples > 3 {
		samples = 3
	}

	for i := 0; i < samples; i++ {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(records[i], &probe); err != nil {
			return false
		}
		if _, ok := probe["mapping"]; !ok {
			return false
		}
		if _, ok := probe["create_time"]; !ok {
			return false
		}
	}

	return true
}
