// Package simpledrive coordinates an object-storage backend (raw file
// bytes) with a metadata store (searchable file records) so that an
// uploaded file behaves as a single atomic entity even though it is
// physically split across two independently failing systems.
//
// The package is storage-agnostic: callers inject a BlobStore and a
// MetadataStore implementation (see the repo and storage subpackages for
// in-memory, filesystem, S3 and Postgres backends) and receive a Service
// exposing upload, list, rename, sharing, delete and usage operations.
package simpledrive
