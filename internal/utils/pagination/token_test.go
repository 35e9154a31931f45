package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	c := Cursor{
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, 3, 1, 14, 30, 45, 123456789, time.UTC),
		ID:        "4f1c2d",
	}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, c.Date.Equal(decoded.Date))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestDecodeCursorErrors(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	twoFields := base64.URLEncoding.EncodeToString([]byte("2025-03-01T00:00:00Z|2025-03-01T00:00:00Z"))
	_, err = DecodeCursor(twoFields)
	assert.ErrorContains(t, err, "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2025-03-01T00:00:00Z|id"))
	_, err = DecodeCursor(badDate)
	assert.ErrorContains(t, err, "date parse")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit(0, 50, 200))
	assert.Equal(t, 50, ClampLimit(-3, 50, 200))
	assert.Equal(t, 20, ClampLimit(20, 50, 200))
	assert.Equal(t, 200, ClampLimit(999, 50, 200))
}
