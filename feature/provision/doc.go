// Package provision bootstraps the object-storage backend of the
// market-data analytics platform.
//
// One run materializes the bucket/object hierarchy described by the
// provisioning document: the base bucket, a segment per market, a strategies
// sub-path per market, and the market-data and strategy artifacts with their
// descriptive tag sets. The dashboard, analytics API and notebook runner are
// read-only consumers of this layout and are never touched from here.
//
// # State Machine
//
//	STARTING -> WAITING_FOR_STORE -> READY -> PROVISIONING -> COMPLETE
//	                              \-> TIMEOUT
//
// STARTING optionally launches the storage server as a detached background
// process. WAITING_FOR_STORE delegates to the Poller, which performs a
// bounded number of authenticated handshakes with a fixed delay between
// attempts. TIMEOUT is the only whole-run failure mode once the document has
// parsed: per-object upload failures are recorded and the traversal
// continues, and tagging failures are logged and ignored entirely.
//
// # Idempotence
//
// Every creation is requested unconditionally on every run. Already-existing
// buckets are detected by their backend error code and treated as success;
// segment markers and object uploads overwrite in place. Running the
// provisioner twice against the same backend yields the same layout.
package provision
