// Package blobstore provides the storage abstraction for mask tables.
//
// A Store holds immutable named blobs. Datasets are written once (Put or
// Create) and then read with random access, which lets readers fetch only
// the table blocks they need. Implementations must be safe for concurrent
// use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads through a read-only mmap
//   - MemoryStore: in-process map, for tests and generated data
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.DDBCommitStore: S3 plus a DynamoDB-backed CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
