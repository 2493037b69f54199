package storage

import "io"

// BlobStore is the document backend for exam paper blobs.
// Get returns an error satisfying errors.Is(err, fs.ErrNotExist) when
// no object lives under key; Delete of a missing key is not an error.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
