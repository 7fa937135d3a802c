package client

import (
	"context"
	"encoding/base64"

	"facedata/internal/config"

	firebase "firebase.google.com/go"
	"github.com/go-faster/errors"
	"google.golang.org/api/option"
)

// Firebase creates the app from a key file, a base64 encoded key, or application default
// credentials, in that order.
func Firebase(ctx context.Context, c config.Config) (*firebase.App, error) {
	opts, err := Options(c)
	if err != nil {
		return nil, err
	}

	var conf *firebase.Config
	if c.ProjectID != "" || c.OutputBucket != "" {
		conf = &firebase.Config{ProjectID: c.ProjectID, StorageBucket: c.OutputBucket}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase")
	}
	return app, nil
}

func Options(c config.Config) ([]option.ClientOption, error) {
	switch {
	case c.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}, nil
	case c.ServiceAccount != "":
		saJSON, err := base64.StdEncoding.DecodeString(c.ServiceAccount)
		if err != nil {
			return nil, errors.Wrap(err, "decode FIRESTORE_SA")
		}
		return []option.ClientOption{option.WithCredentialsJSON(saJSON)}, nil
	default:
		return nil, nil
	}
}
