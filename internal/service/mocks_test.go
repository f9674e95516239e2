package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/loyalty-api/internal/domain/entity"
	"github.com/yourusername/loyalty-api/internal/domain/repository"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисного слоя
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(phone string) (*entity.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

// MockUserTypeRepository реализует repository.UserTypeRepository
type MockUserTypeRepository struct {
	mock.Mock
}

func (m *MockUserTypeRepository) GetByHash(typeHash string) (*entity.UserType, error) {
	args := m.Called(typeHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserType), args.Error(1)
}

func (m *MockUserTypeRepository) GetDefault() (*entity.UserType, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserType), args.Error(1)
}

func (m *MockUserTypeRepository) ListActive() ([]entity.UserType, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserType), args.Error(1)
}

// MockOneTimeCodeRepository реализует repository.OneTimeCodeRepository
type MockOneTimeCodeRepository struct {
	mock.Mock
}

func (m *MockOneTimeCodeRepository) Replace(identity entity.OTCIdentity, code *entity.OneTimeCode) error {
	args := m.Called(identity, code)
	return args.Error(0)
}

func (m *MockOneTimeCodeRepository) GetByIdentity(identity entity.OTCIdentity) (*entity.OneTimeCode, error) {
	args := m.Called(identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OneTimeCode), args.Error(1)
}

func (m *MockOneTimeCodeRepository) DeleteByIdentity(identity entity.OTCIdentity) error {
	args := m.Called(identity)
	return args.Error(0)
}

// MockVisitRepository реализует repository.VisitRepository
type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) Create(visit *entity.Visit) error {
	args := m.Called(visit)
	return args.Error(0)
}

func (m *MockVisitRepository) ExistsForDay(userID, businessID uint, day time.Time) (bool, error) {
	args := m.Called(userID, businessID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockVisitRepository) ListAggregatesByUser(userID uint) ([]repository.VisitAggregate, int64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]repository.VisitAggregate), args.Get(1).(int64), args.Error(2)
}

func (m *MockVisitRepository) ListAggregatesByBusiness(businessID uint) ([]repository.VisitAggregate, error) {
	args := m.Called(businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.VisitAggregate), args.Error(1)
}

// MockBusinessRepository реализует repository.BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) GetByID(id uint) (*entity.Business, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListActive(municipalityID *uint) ([]entity.Business, error) {
	args := m.Called(municipalityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListMenu(businessID uint) ([]entity.BusinessMenu, error) {
	args := m.Called(businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BusinessMenu), args.Error(1)
}

// recordingEmailService запоминает последний отправленный код
type recordingEmailService struct {
	mu               sync.Mutex
	verificationTo   []string
	resetTo          []string
	lastCode         string
	failVerification bool
	failReset        bool
	err              error
}

func (s *recordingEmailService) SendVerificationCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failVerification {
		return s.err
	}
	s.verificationTo = append(s.verificationTo, toEmail)
	s.lastCode = code
	return nil
}

func (s *recordingEmailService) SendPasswordResetCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReset {
		return s.err
	}
	s.resetTo = append(s.resetTo, toEmail)
	s.lastCode = code
	return nil
}

// recordingPublisher запоминает опубликованные визиты
type recordingPublisher struct {
	mu     sync.Mutex
	visits []*entity.Visit
}

func (p *recordingPublisher) PublishVisit(businessID uint, visit *entity.Visit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits = append(p.visits, visit)
}
