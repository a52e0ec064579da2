// Package service contains the application use cases of the listings backend.
// It orchestrates domain objects and the store interfaces (internal/store) to
// fulfill features: publication creation and editing with image-set
// reconciliation, catalog management, comments, likes, users and signed uploads.
//
// Services receive their dependencies through constructor injection and never
// depend on concrete infrastructure. Operations that span several stores run in a
// single transaction via store.RunInTransaction; blob storage work happens outside
// the transaction and is compensated on failure.
//
// Errors are returned as sentinel values (ErrNotOwned, ErrVersionConflict,
// ErrInvalidCredentials) or wrapped store and domain errors so the API layer can
// map them with errors.Is and errors.As.
package service
