package internal

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"facedata/internal/client"
	"facedata/internal/config"
	"facedata/internal/faces"
	"facedata/internal/listener"
	"facedata/internal/store"
	"facedata/internal/upload"

	"github.com/go-faster/errors"
)

type Uploader interface {
	Upload(ctx context.Context, object string, data []byte) error
}

// App runs extractions against one Firestore client for the life of the process.
type App struct {
	cfg       config.Config
	extractor *faces.Extractor
	uploader  Uploader
	closers   []func() error

	mu sync.Mutex
}

// NewApp wires an app from ready components. uploader may be nil.
func NewApp(cfg config.Config, extractor *faces.Extractor, uploader Uploader) *App {
	return &App{cfg: cfg, extractor: extractor, uploader: uploader}
}

// Setup creates the Firebase app and the clients the configuration asks for.
func Setup(ctx context.Context, cfg config.Config) (*App, error) {
	firebaseApp, err := client.Firebase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	firestore, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firestore")
	}

	db := store.New(firestore)
	extractor, err := faces.New(&db)
	if err != nil {
		_ = firestore.Close()
		return nil, err
	}

	a := NewApp(cfg, extractor, nil)
	a.closers = append(a.closers, firestore.Close)

	if cfg.OutputBucket != "" {
		storageClient, err := firebaseApp.Storage(ctx)
		if err != nil {
			_ = a.Close()
			return nil, errors.Wrap(err, "init storage")
		}
		bucket, err := storageClient.Bucket(cfg.OutputBucket)
		if err != nil {
			_ = a.Close()
			return nil, errors.Wrap(err, "open bucket")
		}
		a.uploader = upload.New(bucket)
	}

	return a, nil
}

// Run extracts the faces of fileIDs, writes the summary to the configured path and uploads it
// when a bucket is configured.
func (a *App) Run(ctx context.Context, ownerID string, fileIDs []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	out, err := a.extractor.Extract(ctx, ownerID, fileIDs)
	if err != nil {
		return err
	}

	if err := faces.Persist(a.cfg.OutputPath, out); err != nil {
		return err
	}
	fmt.Printf("face data saved to: %s\n", a.cfg.OutputPath)
	fmt.Printf("total faces with bounding boxes: %d\n", out.Faces.Len())

	if a.uploader != nil {
		b, err := faces.Marshal(out)
		if err != nil {
			return err
		}
		if err := a.uploader.Upload(ctx, a.cfg.OutputObject, b); err != nil {
			return err
		}
		fmt.Printf("face data uploaded to: gs://%s/%s\n", a.cfg.OutputBucket, a.cfg.OutputObject)
	}

	return nil
}

// Handle runs one extraction for a listener request, falling back to the configured owner and files.
func (a *App) Handle(ctx context.Context, req listener.Request) error {
	ownerID := a.cfg.OwnerID
	if req.UserID != "" {
		ownerID = req.UserID
	}

	fileIDs := a.cfg.FileIDs
	if len(req.FileIDs) > 0 {
		fileIDs = req.FileIDs
	}

	return a.Run(ctx, ownerID, fileIDs)
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Bootstrap runs a single extraction with the configured owner and files.
func Bootstrap() error {
	ctx := context.Background()
	cfg := config.Load()

	a, err := Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx, cfg.OwnerID, cfg.FileIDs)
}

// Listen runs an extraction for every message on the configured subscription until SIGTERM.
func Listen() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	a, err := Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := client.Options(cfg)
	if err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- listener.Start(ctx, cfg.ProjectID, cfg.TopicID, cfg.SubID, a.Handle, opts...)
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-exit:
		log.Println("sigterm received")
		cancel()
		return <-errs
	}
}
