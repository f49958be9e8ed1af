// Package directory stores students, their class schedules and admin accounts.
package directory

import (
	"context"
	"errors"

	"github.com/vanshika/campusnav/internal/domain"
)

// ErrNotFound is returned when a student or admin does not exist.
var ErrNotFound = errors.New("directory: not found")

// Store is the persistence contract shared by the memory and Postgres backends.
type Store interface {
	GetStudent(ctx context.Context, matricula string) (domain.Student, error)
	UpsertStudent(ctx context.Context, student domain.Student) error
	GetAdmin(ctx context.Context, username string) (domain.Admin, error)
	UpsertAdmin(ctx context.Context, admin domain.Admin) error
	Ping(ctx context.Context) error
	Close() error
}
