package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrNotOwned, ErrVersionConflict, ErrAdminRequired, ErrInvalidCredentials}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "user",
			op:       "create",
			err:      errors.New("database connection failed"),
			expected: "user service create operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "catalog",
			op:       "delete",
			expected: "catalog service delete operation failed",
		},
		{
			name:     "with sentinel error",
			service:  "comment",
			op:       "delete",
			err:      ErrNotOwned,
			expected: "comment service delete operation failed: resource is owned by another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewServiceError(tt.service, tt.op, tt.err)
			assert.Equal(t, tt.expected, err.Error())
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestPublicationServiceError(t *testing.T) {
	err := NewPublicationServiceError("edit", "failed to save publication", store.ErrPublicationNotFound)

	assert.Equal(t,
		"publication service edit failed: failed to save publication: entity not found: publication",
		err.Error())
	assert.ErrorIs(t, err, store.ErrNotFound)

	bare := NewPublicationServiceError("list", "bad filter", nil)
	assert.Equal(t, "publication service list failed: bad filter", bare.Error())
}

func TestStorageError(t *testing.T) {
	cause := errors.New("bucket unreachable")
	err := fmt.Errorf("upload aborted: %w", &StorageError{Filename: "car.jpg", Err: cause})

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "failed to store car.jpg: bucket unreachable", storageErr.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "blob storage failure: bucket unreachable", (&StorageError{Err: cause}).Error())
}
