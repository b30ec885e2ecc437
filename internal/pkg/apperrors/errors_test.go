// internal/pkg/apperrors/errors_test.go
package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

func TestKindOfClassifiesErrors(t *testing.T) {
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(apperrors.Validation("bad input")))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(apperrors.NotFound("missing")))
	assert.Equal(t, apperrors.KindInsufficientStock, apperrors.KindOf(apperrors.InsufficientStock("empty")))
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(errors.New("plain")))
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := apperrors.InsufficientStock("item %d out of stock", 3)
	wrapped := fmt.Errorf("delivery failed: %w", inner)

	assert.True(t, apperrors.IsKind(wrapped, apperrors.KindInsufficientStock))
	assert.False(t, apperrors.IsKind(wrapped, apperrors.KindNotFound))
}

func TestPersistencePreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.Persistence("failed to save", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to save")
	assert.Contains(t, err.Error(), "connection refused")
}
