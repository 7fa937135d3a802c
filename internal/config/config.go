package config

import (
	"os"
	"strings"
)

const (
	DefaultOwnerID    = "zsvLTeIPJUYGnZHzWX7hVtLJlJX2"
	DefaultOutputPath = "face_data_sample.json"
	DefaultTopicID    = "extract-faces"
	DefaultSubID      = "extract-faces-sub"
)

// DefaultFileIDs are the uploads of the face cropping sample set.
var DefaultFileIDs = []string{
	"file_1755659985239_7le2TjzJGZ",
	"file_1755659986536_HA8cvhthi5",
	"file_1755659987594_8VOMGbAoEd",
	"file_1755659988640_Pa68yHCb0p",
	"file_1755659989503_eavQhJ2RmP",
}

type Config struct {
	OwnerID    string
	FileIDs    []string
	OutputPath string

	// CredentialsFile is a service account key file. ServiceAccount is the same key, base64 encoded.
	CredentialsFile string
	ServiceAccount  string
	ProjectID       string

	OutputBucket string
	OutputObject string

	TopicID string
	SubID   string
}

func Load() Config {
	c := Config{
		OwnerID:         getEnv("OWNER_ID", DefaultOwnerID),
		FileIDs:         splitList(os.Getenv("FILE_IDS")),
		OutputPath:      getEnv("OUTPUT_PATH", DefaultOutputPath),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ServiceAccount:  os.Getenv("FIRESTORE_SA"),
		ProjectID:       os.Getenv("PROJECT_ID"),
		OutputBucket:    os.Getenv("OUTPUT_BUCKET"),
		TopicID:         getEnv("TOPIC_ID", DefaultTopicID),
		SubID:           getEnv("SUB_ID", DefaultSubID),
	}
	if len(c.FileIDs) == 0 {
		c.FileIDs = append([]string(nil), DefaultFileIDs...)
	}
	c.OutputObject = getEnv("OUTPUT_OBJECT", c.OutputPath)

	return c
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
