// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	src := source.NewTable(store, "")
//
// # Features
//
//   - Range reads, so table readers fetch only the blocks they need
//   - Multipart uploads through the SDK transfer manager
//   - Automatic pagination for listing
//   - DDBCommitStore: a DynamoDB conditional write guards the CURRENT
//     pointer so concurrent publishers cannot lose an update
package s3
