// Package blobstore provides read access to exported datasets.
//
// The binary export of the examination system is an immutable blob. Sorting
// engines read it through a [BlobStore], so the same invocation can run on a
// local file or on an object in a bucket.
//
// # Built-in Implementations
//
//   - [LocalStore]: local directory, blobs memory mapped
//   - [MemoryStore]: in-memory blobs for tests
//   - minio.Store: MinIO and S3-compatible object storage
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
