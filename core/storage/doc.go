// Package storage provides an abstraction layer for the object storage backend.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations provisioning needs: proving the backend accepts credentials,
// creating buckets, uploading artifacts, and tagging uploaded objects. This
// abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - ListBuckets: Side-effect-free authenticated handshake.
//   - BucketExists: Verifies access to a bucket.
//   - MakeBucket: Creates a new bucket.
//   - PutObject / FPutObject: Uploads content (from a reader or a local file).
//   - PutObjectTagging: Attaches a tag set to an uploaded object.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "markets")
package storage
