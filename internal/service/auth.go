package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"carprice/internal/metrics"
	"carprice/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("Username taken")
	// ErrEmptyCredentials is returned when username or password is blank
	ErrEmptyCredentials = errors.New("Username and password are required")
)

// AuthService keeps user accounts in memory for the life of the process
type AuthService struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	cost    int
	metrics *metrics.Metrics
	now     func() time.Time

	// compared against when the user does not exist, so both paths hash
	dummyHash []byte
}

// NewAuthService creates an auth service hashing with the given bcrypt cost.
// A cost of 0 selects bcrypt.DefaultCost.
func NewAuthService(cost int, m *metrics.Metrics) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("carprice"), cost)
	return &AuthService{
		users:     make(map[string]*model.User),
		cost:      cost,
		metrics:   m,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register stores a new account
func (s *AuthService) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.metrics.ObserveAuth("register", false)
		return ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		s.metrics.ObserveAuth("register", false)
		return ErrUsernameTaken
	}
	s.users[username] = &model.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	s.metrics.ObserveAuth("register", true)
	return nil
}

// Authenticate checks a username and password
func (s *AuthService) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)

	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	hash := s.dummyHash
	if ok {
		hash = []byte(user.PasswordHash)
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if !ok || err != nil {
		s.metrics.ObserveAuth("login", false)
		return ErrInvalidCredentials
	}

	s.metrics.ObserveAuth("login", true)
	return nil
}

// UserCount returns the number of registered accounts
func (s *AuthService) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
