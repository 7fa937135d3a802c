package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/go-faster/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// FilesCollection holds file records indexed by file id.
	FilesCollection = "files"

	// UsersCollection holds one document per owner, each with its own files sub-collection.
	UsersCollection = "users"
)

type Storer interface {
	GetFile(ctx context.Context, fileID string) (*File, error)
	GetUserFile(ctx context.Context, userID, fileID string) (*File, error)
}

func New(firestore *firestore.Client) Store {
	return Store{firestore: firestore}
}

type Store struct {
	firestore *firestore.Client
}

// GetFile reads files/{fileID}. A missing document is reported as nil, nil.
func (s *Store) GetFile(ctx context.Context, fileID string) (*File, error) {
	ref := s.firestore.Collection(FilesCollection).Doc(fileID)
	return get(ctx, ref, LocationFiles)
}

// GetUserFile reads users/{userID}/files/{fileID}. A missing document is reported as nil, nil.
func (s *Store) GetUserFile(ctx context.Context, userID, fileID string) (*File, error) {
	ref := s.firestore.Collection(UsersCollection).Doc(userID).Collection(FilesCollection).Doc(fileID)
	return get(ctx, ref, LocationUserFiles)
}

func get(ctx context.Context, ref *firestore.DocumentRef, loc Location) (*File, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %s", ref.Path)
	}

	return &File{
		ID:       ref.ID,
		Location: loc,
		Data:     doc.Data(),
	}, nil
}
