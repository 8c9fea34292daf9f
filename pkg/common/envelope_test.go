package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeErr(t *testing.T) {
	assert.NoError(t, (&Envelope{Success: true}).Err())

	err := (&Envelope{Message: "wrong password"}).Err()
	assert.ErrorIs(t, err, ErrUnsuccessful)
	assert.Contains(t, err.Error(), "wrong password")
}

func TestEnvelopeDecode(t *testing.T) {
	var out struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, (&Envelope{Data: []byte(`{"user_id":"9"}`)}).Decode(&out))
	assert.Equal(t, "9", out.UserID)

	require.NoError(t, (&Envelope{Data: []byte(`null`)}).Decode(&out))
	assert.Equal(t, "9", out.UserID)

	assert.Error(t, (&Envelope{Data: []byte(`[`)}).Decode(&out))
}
