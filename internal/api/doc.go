// Package api exposes the listings service over HTTP.
//
// Handlers decode and validate requests, call the service layer and map its
// errors to status codes through HandleAPIError. Publication create and edit
// requests are multipart forms carrying the listing fields and image parts;
// everything else speaks JSON. Authentication and tracing live in the
// middleware subpackage, shared response helpers in shared.
package api
