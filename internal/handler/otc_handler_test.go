package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	apperrors "github.com/yourusername/loyalty-api/internal/pkg/errors"
	"github.com/yourusername/loyalty-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Стабы хранилищ для сборки настоящих сервисов в тестах обработчика
// ============================================================================

// stubOTCRepo держит коды в памяти, ключ — identity.Key()
type stubOTCRepo struct {
	codes map[string]*entity.OneTimeCode
}

func newStubOTCRepo() *stubOTCRepo {
	return &stubOTCRepo{codes: make(map[string]*entity.OneTimeCode)}
}

func (r *stubOTCRepo) put(identity entity.OTCIdentity, code string) {
	r.codes[identity.Key()] = &entity.OneTimeCode{
		IdentityKey: identity.Key(),
		Code:        code,
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}
}

func (r *stubOTCRepo) Replace(identity entity.OTCIdentity, code *entity.OneTimeCode) error {
	r.codes[identity.Key()] = code
	return nil
}

func (r *stubOTCRepo) GetByIdentity(identity entity.OTCIdentity) (*entity.OneTimeCode, error) {
	code, ok := r.codes[identity.Key()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return code, nil
}

func (r *stubOTCRepo) DeleteByIdentity(identity entity.OTCIdentity) error {
	delete(r.codes, identity.Key())
	return nil
}

// stubUserRepo — пустая база пользователей
type stubUserRepo struct{}

func (r *stubUserRepo) Create(user *entity.User) error          { return nil }
func (r *stubUserRepo) GetByID(id uint) (*entity.User, error)   { return nil, apperrors.ErrNotFound }
func (r *stubUserRepo) GetByEmail(s string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}
func (r *stubUserRepo) GetByPhone(s string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}
func (r *stubUserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error { return nil }
func (r *stubUserRepo) UpdatePassword(userID uint, newPassword string) error            { return nil }

type noopEmail struct{}

func (noopEmail) SendVerificationCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	return nil
}
func (noopEmail) SendPasswordResetCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	return nil
}

func newTestOTCHandler(t *testing.T, repo *stubOTCRepo) *OTCHandler {
	t.Helper()
	otc, err := service.NewOTCService(repo, 10*time.Minute)
	require.NoError(t, err)
	registration, err := service.NewRegistrationOTCService(otc, &stubUserRepo{}, noopEmail{})
	require.NoError(t, err)
	reset, err := service.NewPasswordResetService(otc, &stubUserRepo{}, noopEmail{})
	require.NoError(t, err)
	return NewOTCHandler(registration, reset)
}

// ============================================================================
// Валидация запросов: 400 до обращения к сервисам
// ============================================================================

func TestOTCHandler_VerifyCode_ValidationErrors(t *testing.T) {
	handler := newTestOTCHandler(t, newStubOTCRepo())

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: nil},
		{name: "missing email", body: map[string]string{"code": "123456"}},
		{name: "missing code", body: map[string]string{"email": "user@example.com"}},
		{name: "code too short", body: map[string]string{"email": "user@example.com", "code": "123"}},
		{name: "code not numeric", body: map[string]string{"email": "user@example.com", "code": "abcdef"}},
		{name: "invalid email", body: map[string]string{"email": "not-an-email", "code": "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", tt.body)
			handler.VerifyCode(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// ============================================================================
// Маршрутизация объединенной проверки кода
// ============================================================================

func TestOTCHandler_VerifyCode_PasswordResetWins(t *testing.T) {
	repo := newStubOTCRepo()
	repo.put(entity.OTCIdentity{Namespace: entity.NamespaceReset, Email: "user@example.com"}, "111111")
	handler := newTestOTCHandler(t, repo)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", map[string]string{
		"email": "user@example.com",
		"code":  "111111",
	})
	handler.VerifyCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "password_reset", resp["type"])

	// Проверка кода восстановления не расходует его
	_, err := repo.GetByIdentity(entity.OTCIdentity{Namespace: entity.NamespaceReset, Email: "user@example.com"})
	assert.NoError(t, err)
}

func TestOTCHandler_VerifyCode_FallsBackToRegistration(t *testing.T) {
	repo := newStubOTCRepo()
	repo.put(entity.OTCIdentity{Namespace: entity.NamespaceRegistration, Email: "user@example.com"}, "222222")
	handler := newTestOTCHandler(t, repo)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", map[string]string{
		"email": "user@example.com",
		"code":  "222222",
	})
	handler.VerifyCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "registration", resp["type"])

	// Код регистрации одноразовый: после успеха он удален
	_, err := repo.GetByIdentity(entity.OTCIdentity{Namespace: entity.NamespaceRegistration, Email: "user@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOTCHandler_VerifyCode_NoMatch(t *testing.T) {
	handler := newTestOTCHandler(t, newStubOTCRepo())

	c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", map[string]string{
		"email": "user@example.com",
		"code":  "333333",
	})
	handler.VerifyCode(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOTCHandler_ResetPassword_WrongCode(t *testing.T) {
	repo := newStubOTCRepo()
	repo.put(entity.OTCIdentity{Namespace: entity.NamespaceReset, Email: "user@example.com"}, "111111")
	handler := newTestOTCHandler(t, repo)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":        "user@example.com",
		"code":         "999999",
		"new_password": "NewPassword1",
	})
	handler.ResetPassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
