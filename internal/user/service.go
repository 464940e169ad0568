package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]User, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByUsername(username string) (User, error) {
	return s.repo.GetByUsername(username)
}

// Register creates a self-service account. No modified_by is recorded for
// signups; the column stays NULL until an authenticated caller touches the
// row.
func (s *Service) Register(user User) (User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	user.ModifiedOn = time.Now().UTC()
	return s.repo.Create(user)
}

// Create adds a user on behalf of an authenticated caller and records the
// caller's username as the last modifier.
func (s *Service) Create(user User, createdBy string) (User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	user.ModifiedBy = &createdBy
	user.ModifiedOn = time.Now().UTC()
	return s.repo.Create(user)
}

// Update overwrites username, phone number and gender and refreshes the
// modifier stamp.
func (s *Service) Update(id int, user User, updatedBy string) (User, error) {
	user.ModifiedBy = &updatedBy
	user.ModifiedOn = time.Now().UTC()
	return s.repo.Update(id, user)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Authenticate verifies the credentials against the stored bcrypt hash.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *Service) Authenticate(username, password string) (User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
