package engine

import (
	"strconv"

	"docchat/internal/logger"
)

// FlattenMetadata merges page metadata into chunk metadata, keeping
// only scalar values the index can represent. Nested or otherwise
// non-scalar fields are dropped; a bad field never fails an ingestion.
func FlattenMetadata(page map[string]any, chunk map[string]string) map[string]string {
	out := make(map[string]string, len(page)+len(chunk))
	for k, v := range page {
		s, ok := scalarString(v)
		if !ok {
			logger.Debugf("dropping non-scalar metadata field %q", k)
			continue
		}
		out[k] = s
	}
	// Chunk-level fields win over page-level ones.
	for k, v := range chunk {
		out[k] = v
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	default:
		return "", false
	}
}
