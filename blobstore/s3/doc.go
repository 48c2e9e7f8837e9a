// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "exports/")
//
// # Features
//
//   - Range reads for record batches
//   - Multipart uploads with CRC32C checksums for large exports
//   - Automatic pagination for listing
package s3
