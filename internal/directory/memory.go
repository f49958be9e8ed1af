package directory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vanshika/campusnav/internal/domain"
)

// MemoryStore keeps the directory in process memory. It backs local runs from students.json.
type MemoryStore struct {
	mu       sync.RWMutex
	students map[string]domain.Student
	admins   map[string]domain.Admin
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds a store with the given students.
func NewMemoryStore(students ...domain.Student) *MemoryStore {
	s := &MemoryStore{
		students: make(map[string]domain.Student, len(students)),
		admins:   make(map[string]domain.Admin),
		now:      time.Now,
	}
	for _, st := range students {
		s.students[st.Matricula] = s.stamp(st)
	}
	return s
}

// LoadMemoryStore decodes a students.json file into a new MemoryStore.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	students, err := DecodeStudents(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return NewMemoryStore(students...), nil
}

func (s *MemoryStore) stamp(st domain.Student) domain.Student {
	if st.Role == "" {
		st.Role = domain.DefaultStudentRole
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = s.now().UTC()
	}
	st.Classes = append([]domain.ClassSession(nil), st.Classes...)
	return st
}

func (s *MemoryStore) GetStudent(_ context.Context, matricula string) (domain.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.students[matricula]
	if !ok {
		return domain.Student{}, ErrNotFound
	}
	st.Classes = append([]domain.ClassSession(nil), st.Classes...)
	return st, nil
}

func (s *MemoryStore) UpsertStudent(_ context.Context, student domain.Student) error {
	if student.Matricula == "" {
		return fmt.Errorf("student matricula is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.students[student.Matricula]; ok && student.CreatedAt.IsZero() {
		student.CreatedAt = prev.CreatedAt
	}
	s.students[student.Matricula] = s.stamp(student)
	return nil
}

func (s *MemoryStore) GetAdmin(_ context.Context, username string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[username]
	if !ok {
		return domain.Admin{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) UpsertAdmin(_ context.Context, admin domain.Admin) error {
	if admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[admin.Username] = admin
	return nil
}

// Len reports the number of students held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
