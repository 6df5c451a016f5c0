package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCredentials is returned when a provider has nothing to load
var ErrNoCredentials = errors.New("no service account credentials")

// CredentialProvider supplies service account JSON to the sink
type CredentialProvider interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileCredentials reads credentials from a JSON key file
type FileCredentials struct {
	Path string
}

func (f FileCredentials) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoCredentials, f.Path)
		}
		return nil, err
	}
	return data, nil
}

// EnvCredentials takes the JSON from an environment variable and writes it to
// Path so tools expecting a key file can find it.
type EnvCredentials struct {
	Var  string
	Path string
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

func (e EnvCredentials) Load(ctx context.Context) ([]byte, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	raw := getenv(e.Var)
	if raw == "" {
		return nil, fmt.Errorf("%w: $%s is empty", ErrNoCredentials, e.Var)
	}
	data := []byte(raw)

	if e.Path != "" {
		if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create credentials dir: %w", err)
		}
		if err := os.WriteFile(e.Path, data, 0o600); err != nil {
			return nil, fmt.Errorf("write credentials file: %w", err)
		}
	}
	return data, nil
}
