package common

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSONWrapsPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, 200, map[string]string{"title": "hello"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
}

func TestRespondJSONErrorStatusNotSuccessful(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, 503, nil)

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestParseJSONBody(t *testing.T) {
	type payload struct {
		Text string `json:"text"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"text":"ok"}`))
		var p payload
		require.NoError(t, ParseJSONBody(r, &p, 1024))
		assert.Equal(t, "ok", p.Text)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"text":"ok","bogus":1}`))
		var p payload
		assert.Error(t, ParseJSONBody(r, &p, 1024))
	})

	t.Run("oversize body rejected", func(t *testing.T) {
		big := `{"text":"` + strings.Repeat("x", 100) + `"}`
		r := httptest.NewRequest("POST", "/", strings.NewReader(big))
		var p payload
		assert.Error(t, ParseJSONBody(r, &p, 16))
	})
}
