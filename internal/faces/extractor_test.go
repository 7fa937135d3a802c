package faces_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"facedata/internal/faces"
	"facedata/internal/store"
	"facedata/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const owner = "owner1"

func newExtractor(t *testing.T, db store.Storer) *faces.Extractor {
	x, err := faces.New(db, faces.WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)
	return x
}

func fileWithFaces(id string, loc store.Location, entries ...map[string]any) *store.File {
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	return &store.File{ID: id, Location: loc, Data: map[string]any{"extractedFaces": list}}
}

func TestExtract_FoundAndNotFound(t *testing.T) {
	box := map[string]any{"Width": 0.1, "Height": 0.2, "Left": 0.3, "Top": 0.4}
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").
		Return(fileWithFaces("A", store.LocationFiles, map[string]any{"FaceId": "f1", "BoundingBox": box, "Confidence": 98.2}), nil).
		Once()
	db.On("GetFile", mock.Anything, "B").Return(nil, nil).Once()
	db.On("GetUserFile", mock.Anything, owner, "B").Return(nil, nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, owner, out.UserID)
	assert.Equal(t, []string{"A", "B"}, out.Files)
	assert.Equal(t, 1, out.Faces.Len())

	f1, ok := out.Faces.Get("f1")
	require.True(t, ok)
	assert.Equal(t, faces.FaceInfo{FileID: "A", FaceID: "f1", BoundingBox: box, Confidence: 98.2}, f1)

	db.AssertNotCalled(t, "GetUserFile", mock.Anything, owner, "A")
}

func TestExtract_FirstLocationIsExclusive(t *testing.T) {
	db := mocks.NewStorer(t)
	// found but without the face field: the owner's sub-collection is still not consulted
	db.On("GetFile", mock.Anything, "A").Return(&store.File{ID: "A", Location: store.LocationFiles, Data: map[string]any{}}, nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Faces.Len())
	db.AssertNumberOfCalls(t, "GetFile", 1)
	db.AssertNumberOfCalls(t, "GetUserFile", 0)
}

func TestExtract_FallsBackToUserSubcollection(t *testing.T) {
	box := map[string]any{"Width": 0.5}
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(nil, nil).Once()
	db.On("GetUserFile", mock.Anything, owner, "A").
		Return(fileWithFaces("A", store.LocationUserFiles, map[string]any{"faceId": "f2", "boundingBox": box}), nil).
		Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)

	f2, ok := out.Faces.Get("f2")
	require.True(t, ok)
	assert.Equal(t, faces.FaceInfo{FileID: "A", FaceID: "f2", BoundingBox: box, Confidence: 0}, f2)
}

func TestExtract_SkipsEntriesWithoutIDOrBox(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(fileWithFaces("A", store.LocationFiles,
		map[string]any{"faceId": "f1", "boundingBox": map[string]any{}},
		map[string]any{"BoundingBox": map[string]any{"Width": 0.1}},
		map[string]any{"FaceId": "f3"},
		map[string]any{"FaceId": "f4", "BoundingBox": map[string]any{"Width": 0.1}, "Confidence": 80.0},
	), nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)

	assert.Equal(t, []string{"f4"}, out.Faces.IDs())
	_, ok := out.Faces.Get("f1")
	assert.False(t, ok)
}

func TestExtract_LaterFaceOverwrites(t *testing.T) {
	boxA := map[string]any{"Width": 0.1}
	boxB := map[string]any{"Width": 0.2}
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(fileWithFaces("A", store.LocationFiles,
		map[string]any{"FaceId": "f1", "BoundingBox": boxA, "Confidence": 90.0},
		map[string]any{"FaceId": "f0", "BoundingBox": boxA, "Confidence": 70.0},
	), nil).Once()
	db.On("GetFile", mock.Anything, "B").Return(fileWithFaces("B", store.LocationFiles,
		map[string]any{"FaceId": "f1", "BoundingBox": boxB, "Confidence": 95.0},
	), nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A", "B"})
	require.NoError(t, err)

	f1, ok := out.Faces.Get("f1")
	require.True(t, ok)
	assert.Equal(t, faces.FaceInfo{FileID: "B", FaceID: "f1", BoundingBox: boxB, Confidence: 95}, f1)
	assert.Equal(t, []string{"f1", "f0"}, out.Faces.IDs())
}

func TestExtract_LaterFaceInSameFileOverwrites(t *testing.T) {
	box := map[string]any{"Width": 0.1}
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(fileWithFaces("A", store.LocationFiles,
		map[string]any{"FaceId": "f1", "BoundingBox": box, "Confidence": 10.0},
		map[string]any{"FaceId": "f1", "BoundingBox": box, "Confidence": 20.0},
	), nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)

	f1, _ := out.Faces.Get("f1")
	assert.Equal(t, 20.0, f1.Confidence)
	assert.Equal(t, 1, out.Faces.Len())
}

func TestExtract_FilesEchoInputWithDuplicates(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("GetUserFile", mock.Anything, owner, mock.Anything).Return(nil, nil)

	ids := []string{"C", "A", "C", "B"}
	out, err := newExtractor(t, db).Extract(context.Background(), owner, ids)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "C", "B"}, out.Files)
	assert.Equal(t, 0, out.Faces.Len())
	db.AssertNumberOfCalls(t, "GetFile", 4)
	db.AssertNumberOfCalls(t, "GetUserFile", 4)

	ids[0] = "changed"
	assert.Equal(t, "C", out.Files[0])
}

func TestExtract_EmptyInput(t *testing.T) {
	db := mocks.NewStorer(t)

	out, err := newExtractor(t, db).Extract(context.Background(), owner, nil)
	require.NoError(t, err)

	assert.Equal(t, owner, out.UserID)
	assert.Equal(t, []string{}, out.Files)
	assert.Equal(t, 0, out.Faces.Len())
}

func TestExtract_EmptyFaceList(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(fileWithFaces("A", store.LocationFiles), nil).Once()

	out, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Faces.Len())
}

func TestExtract_RemoteErrorIsFatal(t *testing.T) {
	boom := errors.New("unavailable")
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(nil, nil).Once()
	db.On("GetUserFile", mock.Anything, owner, "A").Return(nil, boom).Once()

	_, err := newExtractor(t, db).Extract(context.Background(), owner, []string{"A", "B"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	db.AssertNotCalled(t, "GetFile", mock.Anything, "B")
}

func TestExtract_CustomAliases(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(fileWithFaces("A", store.LocationFiles,
		map[string]any{"face_id": "f1", "bbox": map[string]any{"Width": 0.1}},
	), nil).Once()

	x, err := faces.New(db,
		faces.WithLogger(log.New(io.Discard, "", 0)),
		faces.WithAliases(faces.Aliases{FaceID: []string{"face_id"}, BoundingBox: []string{"bbox"}}),
	)
	require.NoError(t, err)

	out, err := x.Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, out.Faces.IDs())
}

func TestExtract_TraceNumbersFacesByStoredPosition(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("GetFile", mock.Anything, "A").Return(&store.File{ID: "A", Location: store.LocationFiles, Data: map[string]any{
		"extractedFaces": []any{
			"not a face",
			nil,
			map[string]any{"FaceId": "f3", "BoundingBox": map[string]any{"Width": 0.1}},
		},
	}}, nil).Once()

	var trace bytes.Buffer
	x, err := faces.New(db, faces.WithLogger(log.New(&trace, "", 0)))
	require.NoError(t, err)

	out, err := x.Extract(context.Background(), owner, []string{"A"})
	require.NoError(t, err)

	assert.Equal(t, []string{"f3"}, out.Faces.IDs())
	assert.Contains(t, trace.String(), "face 3: faceId=f3")
	assert.NotContains(t, trace.String(), "face 1:")
}
