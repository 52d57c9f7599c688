// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// MinIO is an S3-compatible object store. This package uses the official
// MinIO Go client, which also works with Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	client, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minio.NewStore(client, "my-bucket", "datasets/")
//	src := source.NewTable(store, "")
//
// # Features
//
//   - Range reads for paged table access
//   - Streaming uploads for large tables
//   - No AWS SDK dependency
package minio
