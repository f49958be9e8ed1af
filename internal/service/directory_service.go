package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/domain"
)

// DirectoryService handles student logins, class schedules and admin accounts.
type DirectoryService struct {
	store      directory.Store
	bcryptCost int
}

// NewDirectoryService wraps store. A zero cost selects bcrypt.DefaultCost.
func NewDirectoryService(store directory.Store, bcryptCost int) *DirectoryService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &DirectoryService{store: store, bcryptCost: bcryptCost}
}

// Login identifies a student by matricula.
func (s *DirectoryService) Login(ctx context.Context, matricula string) (LoginResult, error) {
	matricula = normalizeID(matricula)
	if matricula == "" {
		return LoginResult{}, ErrEmptyMatricula
	}

	st, err := s.store.GetStudent(ctx, matricula)
	if errors.Is(err, directory.ErrNotFound) {
		return LoginResult{}, ErrUnknownStudent
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("login %s: %w", matricula, err)
	}

	role := st.Role
	if role == "" {
		role = domain.DefaultStudentRole
	}
	return LoginResult{Matricula: st.Matricula, Name: st.Name, Role: role}, nil
}

// Classes returns the student's schedule. Unknown students yield directory.ErrNotFound.
func (s *DirectoryService) Classes(ctx context.Context, matricula string) (ClassSchedule, error) {
	matricula = normalizeID(matricula)
	if matricula == "" {
		return ClassSchedule{}, ErrEmptyMatricula
	}

	st, err := s.store.GetStudent(ctx, matricula)
	if err != nil {
		return ClassSchedule{}, err
	}

	name := sanitizeString(st.Name)
	if name == "" {
		name = defaultStudentName
	}
	classes := st.Classes
	if classes == nil {
		classes = []domain.ClassSession{}
	}
	return ClassSchedule{Matricula: matricula, Name: name, Classes: classes}, nil
}

// AdminLogin verifies an admin's password.
func (s *DirectoryService) AdminLogin(ctx context.Context, username, password string) (AdminProfile, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return AdminProfile{}, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdmin(ctx, username)
	if errors.Is(err, directory.ErrNotFound) {
		return AdminProfile{}, ErrInvalidCredentials
	}
	if err != nil {
		return AdminProfile{}, fmt.Errorf("admin login %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return AdminProfile{}, ErrInvalidCredentials
	}
	return AdminProfile{Username: admin.Username, Name: admin.Name}, nil
}

// RegisterAdmin creates or replaces an admin account, hashing the password.
func (s *DirectoryService) RegisterAdmin(ctx context.Context, input AdminInput) (AdminProfile, error) {
	username := normalizeUsername(input.Username)
	if username == "" {
		return AdminProfile{}, errors.New("admin username is required")
	}
	if len(input.Password) < 8 {
		return AdminProfile{}, errors.New("admin password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return AdminProfile{}, fmt.Errorf("hash password: %w", err)
	}

	admin := domain.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Name:         sanitizeString(input.Name),
	}
	if err := s.store.UpsertAdmin(ctx, admin); err != nil {
		return AdminProfile{}, fmt.Errorf("register admin %s: %w", username, err)
	}
	return AdminProfile{Username: admin.Username, Name: admin.Name}, nil
}

// Probe checks the directory backend.
func (s *DirectoryService) Probe(ctx context.Context) error {
	return s.store.Ping(ctx)
}
