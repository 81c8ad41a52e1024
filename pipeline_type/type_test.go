package pipeline_type

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordUser(t *testing.T) {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1042,
		"username": "jane.smith",
		"email": "jane@example.com",
		"firstName": "Jane",
		"roles": ["user"]
	}`), &raw))

	var user User
	require.NoError(t, DecodeRecord(raw, &user))

	assert.Equal(t, "1042", user.ID)
	assert.Equal(t, "jane.smith", user.Username)
	assert.Equal(t, "Jane  (jane.smith) <jane@example.com>", user.DisplayName())
}

func TestDecodeRecordRegistrationAliases(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantID    string
	}{
		{name: "title", body: `{"id":"r1","title":"Go Basics","status":2,"progress":50}`, wantTitle: "Go Basics", wantID: "r1"},
		{name: "activityTitle", body: `{"registrationId":"r2","activityTitle":"SQL"}`, wantTitle: "SQL", wantID: "r2"},
		{name: "activityName", body: `{"activityName":"Docker"}`, wantTitle: "Docker"},
		{name: "activityId fallback", body: `{"activityId":"a9"}`, wantTitle: "a9"},
		{name: "nothing", body: `{}`, wantTitle: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &raw))

			var reg Registration
			require.NoError(t, DecodeRecord(raw, &reg))
			assert.Equal(t, tt.wantTitle, reg.DisplayTitle())
			assert.Equal(t, tt.wantID, reg.Identifier())
		})
	}
}

func TestDecodeRecordRejectsNonObject(t *testing.T) {
	var user User
	err := DecodeRecord("just a string", &user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record decoder")
}
