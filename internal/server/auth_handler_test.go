package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariana/devlink-assistant/internal/config"
	"github.com/mariana/devlink-assistant/internal/db"
	"github.com/mariana/devlink-assistant/internal/types"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	byEmail map[string]*db.UserRecord
	byID    map[uuid.UUID]*db.UserRecord
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*db.UserRecord),
		byID:    make(map[uuid.UUID]*db.UserRecord),
	}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (*db.UserRecord, error) {
	record := &db.UserRecord{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byEmail[email] = record
	f.byID[record.ID] = record
	return record, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.UserRecord, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStore) GetUser(_ context.Context, userID uuid.UUID) (*db.UserRecord, error) {
	return f.byID[userID], nil
}

func testAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	passwords, err := config.NewPasswordConfig()
	require.NoError(t, err)

	store := newFakeUserStore()
	return NewAuthHandler(NewUserService(store, passwords), testJWTService()), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSignUp(t *testing.T) {
	handler, _ := testAuthHandler(t)

	rec := postJSON(t, handler.SignUp, "/auth/signup", types.SignUpRequest{
		Name:     "Ana Silva",
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp types.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	handler, _ := testAuthHandler(t)

	req := types.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"}
	require.Equal(t, http.StatusCreated, postJSON(t, handler.SignUp, "/auth/signup", req).Code)
	assert.Equal(t, http.StatusConflict, postJSON(t, handler.SignUp, "/auth/signup", req).Code)
}

func TestSignUp_Validation(t *testing.T) {
	handler, _ := testAuthHandler(t)

	tests := []struct {
		name string
		req  types.SignUpRequest
	}{
		{name: "missing name", req: types.SignUpRequest{Email: "a@b.com", Password: "hunter2hunter2"}},
		{name: "bad email", req: types.SignUpRequest{Name: "Ana", Email: "nope", Password: "hunter2hunter2"}},
		{name: "short password", req: types.SignUpRequest{Name: "Ana", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, postJSON(t, handler.SignUp, "/auth/signup", tt.req).Code)
		})
	}
}

func TestSignIn(t *testing.T) {
	handler, _ := testAuthHandler(t)

	signup := types.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"}
	require.Equal(t, http.StatusCreated, postJSON(t, handler.SignUp, "/auth/signup", signup).Code)

	rec := postJSON(t, handler.SignIn, "/auth/signin", types.SignInRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
}

func TestSignIn_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	handler, _ := testAuthHandler(t)

	signup := types.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"}
	require.Equal(t, http.StatusCreated, postJSON(t, handler.SignUp, "/auth/signup", signup).Code)

	wrongPassword := postJSON(t, handler.SignIn, "/auth/signin", types.SignInRequest{
		Email: "ana@example.com", Password: "wrong-password",
	})
	unknownUser := postJSON(t, handler.SignIn, "/auth/signin", types.SignInRequest{
		Email: "nobody@example.com", Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String(), "errors must not reveal which field was wrong")
}
