package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_1",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"image_url": "https://img.example.com/a.png",
			"email_addresses": [
				{"email_address": "ada@example.com"},
				{"email_address": "secondary@example.com"}
			]
		}
	}`)

	ev, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventUserCreated, ev.Type)
	assert.Equal(t, "user_1", ev.Data.ID)
	assert.Equal(t, "ada@example.com", ev.Data.PrimaryEmail())
}

func TestParseEvent_Invalid(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data":{"id":"user_1"}}`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"type":"user.created","data":{}}`))
	assert.Error(t, err)
}

func TestPrimaryEmail_Empty(t *testing.T) {
	assert.Empty(t, UserData{}.PrimaryEmail())
}

func TestIsUserEvent(t *testing.T) {
	assert.True(t, IsUserEvent(EventUserCreated))
	assert.True(t, IsUserEvent(EventUserUpdated))
	assert.True(t, IsUserEvent(EventUserDeleted))
	assert.False(t, IsUserEvent("session.created"))
	assert.False(t, IsUserEvent(""))
}
