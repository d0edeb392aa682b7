package types

import "errors"

var (
	ErrFolderRequired    = errors.New("a GCP folder ID is required")
	ErrMalformedRecord   = errors.New("malformed API record")
	ErrNoCredentials     = errors.New("no GCP credentials found. Run 'gcloud auth application-default login' or pass --creds-file")
	ErrUnsupportedConfig = errors.New("unsupported config file format")
	ErrInvalidConfig     = errors.New("invalid config value")
)
