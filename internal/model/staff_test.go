package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalStringUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("absent key is not set", func(t *testing.T) {
		t.Parallel()
		var req UpdateStaffRequest
		require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
		assert.False(t, req.LastName.Set)
	})

	t.Run("explicit null is set and empty", func(t *testing.T) {
		t.Parallel()
		var req UpdateStaffRequest
		require.NoError(t, json.Unmarshal([]byte(`{"last_name":null}`), &req))
		assert.True(t, req.LastName.Set)
		assert.True(t, req.LastName.Empty())
		assert.Nil(t, req.LastName.Value)
	})

	t.Run("empty string is set and empty", func(t *testing.T) {
		t.Parallel()
		var req UpdateStaffRequest
		require.NoError(t, json.Unmarshal([]byte(`{"last_name":""}`), &req))
		assert.True(t, req.LastName.Set)
		assert.True(t, req.LastName.Empty())
	})

	t.Run("value is set and not empty", func(t *testing.T) {
		t.Parallel()
		var req UpdateStaffRequest
		require.NoError(t, json.Unmarshal([]byte(`{"last_name":"Smith"}`), &req))
		assert.True(t, req.LastName.Set)
		assert.False(t, req.LastName.Empty())
		require.NotNil(t, req.LastName.Value)
		assert.Equal(t, "Smith", *req.LastName.Value)
	})
}

func TestStaffDisplayName(t *testing.T) {
	t.Parallel()

	last := "Smith"
	empty := ""

	assert.Equal(t, "Jane Smith", (&Staff{FirstName: "Jane", LastName: &last}).DisplayName())
	assert.Equal(t, "Jane", (&Staff{FirstName: "Jane"}).DisplayName())
	assert.Equal(t, "Jane", (&Staff{FirstName: "Jane", LastName: &empty}).DisplayName())
}

func TestStaffSerializationHidesSecrets(t *testing.T) {
	t.Parallel()

	token := "abc123"
	s := Staff{
		ID:                 1,
		FirstName:          "Jane",
		Username:           "jane",
		Email:              "jane@example.com",
		PasswordHash:       "$2a$10$secret",
		ResetPasswordToken: &token,
	}

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.NotContains(t, string(out), "abc123")
	assert.NotContains(t, string(out), "password_hash")
}
