package store

// ExtractedFacesField is the document field holding the detector output for a file.
const ExtractedFacesField = "extractedFaces"

type Location string

const (
	LocationFiles     Location = "files collection"
	LocationUserFiles Location = "user subcollection"
)

type File struct {
	ID       string
	Location Location
	Data     map[string]any
}

// ExtractedFaces returns the raw face entries of the file and whether the field was present.
// Elements keep their stored positions and are not checked to be mappings.
func (f *File) ExtractedFaces() ([]any, bool) {
	if f == nil || f.Data == nil {
		return nil, false
	}

	v, ok := f.Data[ExtractedFacesField]
	if !ok {
		return nil, false
	}

	list, _ := v.([]any)
	return list, true
}
