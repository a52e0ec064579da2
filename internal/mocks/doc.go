// Package mocks provides centralized mock implementations for testing.
//
// Store mocks keep their data in memory so service tests can assert on the
// resulting state; every method can be overridden through a function field to
// inject failures. Service mocks return their zero values unless a function
// field is set.
//
// Usage:
//
//	import "github.com/phrazzld/autolist-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    blobs := mocks.NewMockBlobStore()
//	    blobs.PutFn = func(ctx context.Context, data []byte, contentType string) (string, error) {
//	        return "", errors.New("bucket unavailable")
//	    }
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Add a compile-time assertion that the mock implements the interface
package mocks
