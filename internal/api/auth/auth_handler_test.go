package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-auth-gate/internal/api"
	"github.com/FACorreiaa/go-auth-gate/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*types.UserRecord, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserRecord), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockAuthService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","password":"pw","name":"A"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw", "A").
					Return(&types.UserRecord{ID: uuid.New(), Email: "a@x.com", Name: "A"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantMsg:    "User successfully created!",
		},
		{
			name: "missing fields",
			body: `{"email":"a@x.com"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "", "").
					Return(nil, fmt.Errorf("register: %w", api.ErrValidation)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    api.MsgRequiredFieldsMissing,
		},
		{
			name: "already exists",
			body: `{"email":"a@x.com","password":"pw","name":"A"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw", "A").
					Return(nil, fmt.Errorf("register: %w", api.ErrConflict)).Once()
			},
			wantStatus: http.StatusConflict,
			wantMsg:    api.MsgUserExists,
		},
		{
			name: "store failure",
			body: `{"email":"a@x.com","password":"pw","name":"A"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "a@x.com", "pw", "A").
					Return(nil, errors.New("connection reset by peer")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    api.MsgSomethingWentWrong,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "body contains badly-formed JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)
			h := NewAuthHandlerImpl(svc, slog.Default())

			req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.Register(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeResponse(t, rr)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.NotContains(t, rr.Body.String(), "connection reset")
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "pw").Return("signed.token.value", nil).Once()
		h := NewAuthHandlerImpl(svc, slog.Default())

		req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"a@x.com","password":"pw"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Logged In Successfully", resp.Message)
		assert.Equal(t, "signed.token.value", resp.Token)
		svc.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "", "pw").Return("", fmt.Errorf("login: %w", api.ErrValidation)).Once()
		h := NewAuthHandlerImpl(svc, slog.Default())

		req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"password":"pw"}`))
		rr := httptest.NewRecorder()
		h.Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, api.MsgLoginFieldsMissing, decodeResponse(t, rr).Message)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "nobody@x.com", "pw").
			Return("", fmt.Errorf("login: %w", api.ErrInvalidCredentials)).Once()
		svc.On("Login", mock.Anything, "a@x.com", "wrong").
			Return("", fmt.Errorf("login: %w", api.ErrInvalidCredentials)).Once()
		h := NewAuthHandlerImpl(svc, slog.Default())

		unknown := httptest.NewRecorder()
		h.Login(unknown, httptest.NewRequest(http.MethodPost, "/user/login",
			strings.NewReader(`{"email":"nobody@x.com","password":"pw"}`)))
		wrong := httptest.NewRecorder()
		h.Login(wrong, httptest.NewRequest(http.MethodPost, "/user/login",
			strings.NewReader(`{"email":"a@x.com","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, unknown.Code, wrong.Code)
		assert.Equal(t, unknown.Body.String(), wrong.Body.String())
		assert.Equal(t, api.MsgInvalidCredentials, decodeResponse(t, unknown).Message)
		svc.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "pw").Return("", errors.New("pool closed")).Once()
		h := NewAuthHandlerImpl(svc, slog.Default())

		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/user/login",
			strings.NewReader(`{"email":"a@x.com","password":"pw"}`)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, api.MsgSomethingWentWrong, decodeResponse(t, rr).Message)
	})
}

func TestLogoutHandler(t *testing.T) {
	h := NewAuthHandlerImpl(new(MockAuthService), slog.Default())

	for _, authz := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodPost, "/user/logout", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rr := httptest.NewRecorder()
		h.Logout(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Logged out successfully", decodeResponse(t, rr).Message)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, LogoutCookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	}
}

func TestMeHandler(t *testing.T) {
	h := NewAuthHandlerImpl(new(MockAuthService), slog.Default())

	t.Run("with identity", func(t *testing.T) {
		identity := types.Identity{UserID: uuid.NewString(), Email: "a@x.com"}
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(WithIdentity(req.Context(), identity))
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got types.Identity
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, identity.UserID, got.UserID)
		assert.Equal(t, identity.Email, got.Email)
	})

	t.Run("without identity", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Me(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
