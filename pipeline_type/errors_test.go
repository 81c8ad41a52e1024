package pipeline_type

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFailedError(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		err := RequestFailed("POST", "/authenticate", 401, []byte(`{"error":"bad credentials"}`), nil)

		assert.Equal(t, "POST /authenticate: request failed with status 401", err.Error())
		assert.True(t, errors.Is(err, ErrRequestFailed))
		assert.False(t, errors.Is(err, ErrMissingPrerequisite))

		var rf *RequestFailedError
		require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &rf))
		assert.Equal(t, 401, rf.StatusCode)
		assert.JSONEq(t, `{"error":"bad credentials"}`, string(rf.Body))
	})

	t.Run("transport", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := RequestFailed("GET", "/domain/client", 0, nil, cause)

		assert.Equal(t, "GET /domain/client: request failed: connection refused", err.Error())
		assert.True(t, errors.Is(err, cause))
	})
}

func TestMissingPrerequisiteError(t *testing.T) {
	err := MissingPrerequisite("selectedUserId", "Register User", "no user selected")
	assert.Equal(t, `Register User: missing prerequisite "selectedUserId": no user selected`, err.Error())
	assert.True(t, errors.Is(fmt.Errorf("outer: %w", err), ErrMissingPrerequisite))

	bare := MissingPrerequisite("clientId", "", "")
	assert.Equal(t, `missing prerequisite "clientId"`, bare.Error())
}

func TestCallbackFaultError(t *testing.T) {
	cause := errors.New("Authorization header not found in response")
	err := CallbackFault("POST", "/authenticate", cause)

	assert.True(t, errors.Is(err, ErrCallbackFault))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "callback fault")
}
