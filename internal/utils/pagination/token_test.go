package pagination_test

import (
	"testing"
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entityDate := time.Date(2025, 6, 14, 10, 30, 0, 123456789, time.UTC)
	createdAt := time.Date(2025, 6, 14, 10, 30, 1, 987654321, time.UTC)

	token := pagination.EncodeToken(entityDate, createdAt, "txn-42")
	gotDate, gotCreated, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entityDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
	assert.Equal(t, "txn-42", gotID)
}

func TestDecodeTokenInvalid(t *testing.T) {
	_, _, _, err := pagination.DecodeToken("not-base64!!")
	assert.Error(t, err)

	_, _, _, err = pagination.DecodeToken("aGVsbG8=") // decodes but has no separator
	assert.Error(t, err)
}

func TestEncodeDecodeCursorToken(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	token := pagination.EncodeCursorToken(createdAt, "entry-7")
	gotCreated, gotID, err := pagination.DecodeCursorToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotCreated))
	assert.Equal(t, "entry-7", gotID)
}

// Rows written in the same transaction share one timestamp; their cursors
// must still identify each row so a page boundary between them cannot skip
// the second one.
func TestCursorTokenDistinguishesEqualTimestamps(t *testing.T) {
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tokenA := pagination.EncodeCursorToken(createdAt, "entry-a")
	tokenB := pagination.EncodeCursorToken(createdAt, "entry-b")
	assert.NotEqual(t, tokenA, tokenB)

	_, idA, err := pagination.DecodeCursorToken(tokenA)
	require.NoError(t, err)
	_, idB, err := pagination.DecodeCursorToken(tokenB)
	require.NoError(t, err)
	assert.Equal(t, "entry-a", idA)
	assert.Equal(t, "entry-b", idB)
}

func TestDecodeCursorTokenInvalid(t *testing.T) {
	_, _, err := pagination.DecodeCursorToken("not-base64!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeCursorToken("aGVsbG8=")
	assert.Error(t, err)
}
