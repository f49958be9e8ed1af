package directory

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/vanshika/campusnav/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens the database at databaseURL, configures the pool and applies
// pending migrations.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

const (
	selectStudentSQL = `SELECT matricula, name, role, created_at FROM students WHERE matricula = $1`
	selectClassesSQL = `SELECT date, weekday, subject, time_slot, room, room_node_id
FROM class_sessions WHERE student_matricula = $1 ORDER BY position`
	upsertStudentSQL = `INSERT INTO students (matricula, name, role) VALUES ($1, $2, $3)
ON CONFLICT (matricula) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role`
	deleteClassesSQL = `DELETE FROM class_sessions WHERE student_matricula = $1`
	insertClassSQL   = `INSERT INTO class_sessions
(student_matricula, position, date, weekday, subject, time_slot, room, room_node_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectAdminSQL = `SELECT username, password_hash, name FROM admins WHERE username = $1`
	upsertAdminSQL = `INSERT INTO admins (username, password_hash, name) VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, name = EXCLUDED.name`
)

func (s *PostgresStore) GetStudent(ctx context.Context, matricula string) (domain.Student, error) {
	var st domain.Student
	err := s.db.QueryRowContext(ctx, selectStudentSQL, matricula).
		Scan(&st.Matricula, &st.Name, &st.Role, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, ErrNotFound
	}
	if err != nil {
		return domain.Student{}, fmt.Errorf("select student %s: %w", matricula, err)
	}

	rows, err := s.db.QueryContext(ctx, selectClassesSQL, matricula)
	if err != nil {
		return domain.Student{}, fmt.Errorf("select classes %s: %w", matricula, err)
	}
	defer rows.Close()

	st.Classes = []domain.ClassSession{}
	for rows.Next() {
		var c domain.ClassSession
		if err := rows.Scan(&c.Date, &c.Weekday, &c.Subject, &c.Time, &c.Room, &c.RoomNodeID); err != nil {
			return domain.Student{}, fmt.Errorf("scan class: %w", err)
		}
		st.Classes = append(st.Classes, c)
	}
	if err := rows.Err(); err != nil {
		return domain.Student{}, fmt.Errorf("iterate classes: %w", err)
	}
	return st, nil
}

// UpsertStudent replaces the student's record and full class list in one transaction.
func (s *PostgresStore) UpsertStudent(ctx context.Context, student domain.Student) (err error) {
	if student.Matricula == "" {
		return fmt.Errorf("student matricula is required")
	}
	role := student.Role
	if role == "" {
		role = domain.DefaultStudentRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertStudentSQL, student.Matricula, student.Name, role); err != nil {
		return fmt.Errorf("upsert student %s: %w", student.Matricula, err)
	}
	if _, err = tx.ExecContext(ctx, deleteClassesSQL, student.Matricula); err != nil {
		return fmt.Errorf("clear classes %s: %w", student.Matricula, err)
	}
	for i, c := range student.Classes {
		if _, err = tx.ExecContext(ctx, insertClassSQL,
			student.Matricula, i, c.Date, c.Weekday, c.Subject, c.Time, c.Room, c.RoomNodeID,
		); err != nil {
			return fmt.Errorf("insert class %d for %s: %w", i, student.Matricula, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAdmin(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	err := s.db.QueryRowContext(ctx, selectAdminSQL, username).Scan(&a.Username, &a.PasswordHash, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("select admin %s: %w", username, err)
	}
	return a, nil
}

func (s *PostgresStore) UpsertAdmin(ctx context.Context, admin domain.Admin) error {
	if admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	if _, err := s.db.ExecContext(ctx, upsertAdminSQL, admin.Username, admin.PasswordHash, admin.Name); err != nil {
		return fmt.Errorf("upsert admin %s: %w", admin.Username, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
