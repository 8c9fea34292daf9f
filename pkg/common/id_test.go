package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "u-7", "c": null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, "u-7", v.B.String())
	assert.Empty(t, v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}
