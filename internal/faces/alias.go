package faces

// Aliases lists the accepted key names for each logical face field, in priority order.
type Aliases struct {
	FaceID      []string
	BoundingBox []string
	Confidence  []string
}

// DefaultAliases matches the PascalCase keys written by the detector and the camelCase keys
// written by older clients.
var DefaultAliases = Aliases{
	FaceID:      []string{"FaceId", "faceId"},
	BoundingBox: []string{"BoundingBox", "boundingBox"},
	Confidence:  []string{"Confidence", "confidence"},
}

// Lookup returns the value of the first key in keys that is present in entry.
// A present key wins even when its value is empty.
func Lookup(entry map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := entry[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// Normalize builds the summary of one raw face entry. It reports false when the entry has no
// face id or no bounding box and must be left out.
func Normalize(fileID string, entry map[string]any, aliases Aliases) (FaceInfo, bool) {
	v, _ := Lookup(entry, aliases.FaceID)
	faceID, _ := v.(string)
	if faceID == "" {
		return FaceInfo{}, false
	}

	v, _ = Lookup(entry, aliases.BoundingBox)
	box, _ := v.(map[string]any)
	if len(box) == 0 {
		return FaceInfo{}, false
	}

	v, _ = Lookup(entry, aliases.Confidence)

	return FaceInfo{
		FileID:      fileID,
		FaceID:      faceID,
		BoundingBox: box,
		Confidence:  toFloat(v),
	}, true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}
