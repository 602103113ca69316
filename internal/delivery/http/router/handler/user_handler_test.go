package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mart/internal/delivery/http/validator"
	"mart/internal/domain/entity"
	"mart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserUsecase records the input it was called with.
type stubUserUsecase struct {
	registerInput *usecase.RegisterInput
	registerOut   *usecase.RegisterOutput
	registerErr   error
}

func (s *stubUserUsecase) Register(_ context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	s.registerInput = input

	return s.registerOut, s.registerErr
}

func (s *stubUserUsecase) Login(_ context.Context, _ *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return nil, nil
}

func (s *stubUserUsecase) GetUser(_ context.Context, _ uuid.UUID) (*entity.User, error) {
	return nil, nil
}

func newRegisterContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register(t *testing.T) {
	registered := &entity.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		IsBuyer:  true,
	}
	uc := &stubUserUsecase{registerOut: &usecase.RegisterOutput{User: registered}}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, rec := newRegisterContext(`{"username":"alice","email":"alice@example.com","password":"Password123!","is_buyer":true}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.registerInput)
	assert.Equal(t, "alice", uc.registerInput.Username)
	assert.True(t, uc.registerInput.IsBuyer)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_Register_EmptyBody(t *testing.T) {
	uc := &stubUserUsecase{}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newRegisterContext("")

	// An empty body must fail validation cleanly, never reach the usecase.
	err := h.Register(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Nil(t, uc.registerInput)
}

func TestUserHandler_Register_MissingRequiredFields(t *testing.T) {
	uc := &stubUserUsecase{}
	h := NewUserHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c, _ := newRegisterContext(`{"email":"alice@example.com"}`)

	err := h.Register(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Nil(t, uc.registerInput)
}
