package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", fmt.Errorf("register: %w", ErrValidation), http.StatusBadRequest, MsgRequiredFieldsMissing},
		{"conflict", fmt.Errorf("register: %w", ErrConflict), http.StatusConflict, MsgUserExists},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, MsgInvalidCredentials},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, MsgLoginRequired},
		{"invalid token", ErrInvalidToken, http.StatusBadRequest, MsgInvalidToken},
		{"hashing", fmt.Errorf("%w: entropy", ErrHashing), http.StatusInternalServerError, MsgSomethingWentWrong},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, MsgSomethingWentWrong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	ErrorResponse(w, req, http.StatusConflict, MsgUserExists)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgUserExists, body["message"])
	_, hasReqID := body["request_id"]
	assert.False(t, hasReqID, "request_id is omitted when no RequestID middleware ran")
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("UnknownFieldsTolerated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","age":3}`))
		var dst LoginRequest
		require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, "a@x.com", dst.Email)
	})

	t.Run("Empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var dst LoginRequest
		err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
		assert.EqualError(t, err, "body must not be empty")
	})

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email": "a@x.com", "password":}`))
		var dst LoginRequest
		assert.Error(t, DecodeJSONBody(httptest.NewRecorder(), req, &dst))
	})

	t.Run("TrailingData", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a"}{"email":"b"}`))
		var dst LoginRequest
		err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
		assert.EqualError(t, err, "body must only contain a single JSON value")
	})
}
