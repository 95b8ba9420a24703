package object

import (
	"context"
	"errors"
	"io"
	"path"

	"coursefit-backend/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save writes r under namespace/fileName and returns the storage key and size.
	Save(ctx context.Context, namespace, fileName, contentType string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Key builds the storage key for a file inside a namespace.
// Namespaces are hashed so free-form labels never reach a path.
func Key(namespace, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	if namespace == "" {
		return name, nil
	}
	return path.Join(util.HashKey(namespace)[:16], name), nil
}
