// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph, SeaweedFS
// and Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "provao", "exports/")
//	s := provao.New(provao.WithSource(store))
//
// Reads are issued as ranged GETs, one per ReadAt call. Record sources read in
// batches so a full pass costs a handful of requests.
package minio
