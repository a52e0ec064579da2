// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Relational entities live behind the
// *Store interfaces; image bytes live behind BlobStore.
package store
