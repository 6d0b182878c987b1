package pipeline

import (
	"bytes"
	"encoding/json"

	"vodpress/internal/services"
)

// validateTrigger enforces the trigger contract: a non-empty, parseable JSON
// payload must be present. The payload's contents are not otherwise
// interpreted, but an empty document (null, {}, [], "", 0, false) does not
// count as a trigger.
func validateTrigger(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "empty payload", nil)
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "malformed JSON", err)
	}

	switch v := doc.(type) {
	case nil:
		return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "null payload", nil)
	case map[string]any:
		if len(v) == 0 {
			return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "empty object payload", nil)
		}
	case []any:
		if len(v) == 0 {
			return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "empty array payload", nil)
		}
	case string:
		if v == "" {
			return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "empty string payload", nil)
		}
	case float64:
		if v == 0 {
			return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "zero payload", nil)
		}
	case bool:
		if !v {
			return services.Wrap(services.ErrInvalidRequest, "trigger", "parse", "false payload", nil)
		}
	}
	return nil
}
