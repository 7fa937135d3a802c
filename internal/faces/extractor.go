package faces

import (
	"context"
	"log"
	"os"

	"facedata/internal/store"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "facedata/internal/faces"

type Option func(*Extractor)

func WithLogger(l *log.Logger) Option {
	return func(x *Extractor) {
		x.log = l
	}
}

func WithAliases(a Aliases) Option {
	return func(x *Extractor) {
		x.aliases = a
	}
}

func New(store store.Storer, opts ...Option) (*Extractor, error) {
	x := &Extractor{
		store:   store,
		aliases: DefaultAliases,
		log:     log.New(os.Stdout, "", 0),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(x)
	}

	meter := otel.Meter(instrumentationName)

	var err error
	x.filesFound, err = meter.Int64Counter("facedata.files.found",
		metric.WithDescription("File records found in either location."))
	if err != nil {
		return nil, err
	}
	x.filesMissing, err = meter.Int64Counter("facedata.files.missing",
		metric.WithDescription("File records found in no location."))
	if err != nil {
		return nil, err
	}
	x.facesExtracted, err = meter.Int64Counter("facedata.faces.extracted",
		metric.WithDescription("Face entries with an id and a bounding box."))
	if err != nil {
		return nil, err
	}

	return x, nil
}

type Extractor struct {
	store   store.Storer
	aliases Aliases
	log     *log.Logger
	tracer  trace.Tracer

	filesFound     metric.Int64Counter
	filesMissing   metric.Int64Counter
	facesExtracted metric.Int64Counter
}

// Extract looks up every file in order and collects the faces that carry an id and a bounding
// box. Files missing from both locations are traced and skipped. The returned Files always
// echoes fileIDs.
func (x *Extractor) Extract(ctx context.Context, ownerID string, fileIDs []string) (Output, error) {
	ctx, span := x.tracer.Start(ctx, "faces.Extract", trace.WithAttributes(
		attribute.String("owner.id", ownerID),
		attribute.Int("files.count", len(fileIDs)),
	))
	defer span.End()

	x.log.Printf("fetching face data for user: %s", ownerID)

	faces := NewFaceMap()
	for _, fileID := range fileIDs {
		if err := x.extractFile(ctx, ownerID, fileID, faces); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Output{}, err
		}
	}

	span.SetAttributes(attribute.Int("faces.count", faces.Len()))

	return Output{
		UserID: ownerID,
		Faces:  faces,
		Files:  append(make([]string, 0, len(fileIDs)), fileIDs...),
	}, nil
}

func (x *Extractor) extractFile(ctx context.Context, ownerID, fileID string, out *FaceMap) error {
	x.log.Printf("checking file: %s", fileID)

	file, err := x.find(ctx, ownerID, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		x.filesMissing.Add(ctx, 1)
		x.log.Printf("  document not found in any location")
		return nil
	}
	x.filesFound.Add(ctx, 1, metric.WithAttributes(attribute.String("location", string(file.Location))))
	x.log.Printf("  found in %s", file.Location)

	entries, ok := file.ExtractedFaces()
	if !ok {
		x.log.Printf("  no %s field in document", store.ExtractedFacesField)
		return nil
	}
	if len(entries) == 0 {
		x.log.Printf("  no faces in file")
		return nil
	}
	x.log.Printf("  found %d faces in file", len(entries))

	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		info, ok := Normalize(fileID, entry, x.aliases)
		if !ok {
			continue
		}
		out.Put(info)
		x.facesExtracted.Add(ctx, 1)

		x.log.Printf("  face %d: faceId=%s boundingBox=%v confidence=%v%%", i+1, info.FaceID, info.BoundingBox, info.Confidence)
	}

	return nil
}

// find returns the file from the global collection, or from the owner's sub-collection when the
// global one has no such document.
func (x *Extractor) find(ctx context.Context, ownerID, fileID string) (*store.File, error) {
	file, err := x.store.GetFile(ctx, fileID)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s", fileID)
	}
	if file != nil {
		return file, nil
	}

	file, err = x.store.GetUserFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s of user %s", fileID, ownerID)
	}
	return file, nil
}
