package faces

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

type FaceInfo struct {
	FileID      string
	FaceID      string
	BoundingBox map[string]any
	Confidence  float64
}

// FaceMap is keyed by face id and remembers the order in which ids were first added.
// Replacing a face keeps its position.
type FaceMap struct {
	ids  []string
	byID map[string]FaceInfo
}

func NewFaceMap() *FaceMap {
	return &FaceMap{byID: make(map[string]FaceInfo)}
}

func (m *FaceMap) Put(f FaceInfo) {
	if _, ok := m.byID[f.FaceID]; !ok {
		m.ids = append(m.ids, f.FaceID)
	}
	m.byID[f.FaceID] = f
}

func (m *FaceMap) Get(faceID string) (FaceInfo, bool) {
	if m == nil {
		return FaceInfo{}, false
	}
	f, ok := m.byID[faceID]
	return f, ok
}

func (m *FaceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

func (m *FaceMap) IDs() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.ids...)
}

type Output struct {
	UserID string
	Faces  *FaceMap
	Files  []string
}

// Encode writes the output document as a JSON object with the keys userId, faces and files.
func (o Output) Encode(e *jx.Encoder) {
	e.ObjStart()

	e.FieldStart("userId")
	e.Str(o.UserID)

	e.FieldStart("faces")
	e.ObjStart()
	for _, id := range o.Faces.IDs() {
		f, _ := o.Faces.Get(id)
		e.FieldStart(id)
		f.Encode(e)
	}
	e.ObjEnd()

	e.FieldStart("files")
	e.ArrStart()
	for _, id := range o.Files {
		e.Str(id)
	}
	e.ArrEnd()

	e.ObjEnd()
}

func (f FaceInfo) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("fileId")
	e.Str(f.FileID)
	e.FieldStart("faceId")
	e.Str(f.FaceID)
	e.FieldStart("boundingBox")
	encodeValue(e, f.BoundingBox)
	e.FieldStart("confidence")
	e.Float64(f.Confidence)
	e.ObjEnd()
}

// Marshal returns the output document indented by two spaces. Empty objects and arrays stay
// on one line as {} and [].
func Marshal(o Output) ([]byte, error) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	o.Encode(e)

	var buf bytes.Buffer
	if err := json.Indent(&buf, e.Bytes(), "", "  "); err != nil {
		return nil, errors.Wrap(err, "indent output")
	}
	return buf.Bytes(), nil
}

// Persist writes the output document to path, replacing any existing file.
func Persist(path string, o Output) error {
	b, err := Marshal(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}

// encodeValue writes a value decoded from Firestore. Map keys are sorted.
func encodeValue(e *jx.Encoder, v any) {
	switch v := v.(type) {
	case nil:
		e.Null()
	case bool:
		e.Bool(v)
	case string:
		e.Str(v)
	case int64:
		e.Int64(v)
	case int:
		e.Int(v)
	case float64:
		e.Float64(v)
	case float32:
		e.Float32(v)
	case []byte:
		e.Base64(v)
	case time.Time:
		e.Str(v.UTC().Format(time.RFC3339Nano))
	case []any:
		e.ArrStart()
		for _, elem := range v {
			encodeValue(e, elem)
		}
		e.ArrEnd()
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		e.ObjStart()
		for _, k := range keys {
			e.FieldStart(k)
			encodeValue(e, v[k])
		}
		e.ObjEnd()
	default:
		e.Null()
	}
}
