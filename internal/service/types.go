package service

import (
	"errors"
	"time"

	"github.com/vanshika/campusnav/internal/domain"
)

var (
	// ErrEmptyID indicates a route query with a blank origin or destination.
	ErrEmptyID = errors.New("waypoint id is required")

	// ErrMapNotLoaded indicates a query issued before the first successful reload.
	ErrMapNotLoaded = errors.New("campus map not loaded")

	// ErrEmptyMatricula indicates a login or lookup without an enrolment number.
	ErrEmptyMatricula = errors.New("matricula is required")

	// ErrUnknownStudent indicates a login for a matricula absent from the directory.
	ErrUnknownStudent = errors.New("matricula not found")

	// ErrInvalidCredentials indicates an admin login with a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// defaultStudentName is shown when a directory record has no name.
const defaultStudentName = "Aluno"

// MapStatus summarizes the graph currently serving queries.
type MapStatus struct {
	Source   string
	Nodes    int
	Edges    int
	LoadedAt time.Time
}

// LoginResult is returned by a successful student login.
type LoginResult struct {
	Matricula string
	Name      string
	Role      string
}

// ClassSchedule lists a student's weekly classes.
type ClassSchedule struct {
	Matricula string
	Name      string
	Classes   []domain.ClassSession
}

// AdminProfile is returned by a successful admin login. It never carries the password hash.
type AdminProfile struct {
	Username string
	Name     string
}

// AdminInput registers or updates an admin account.
type AdminInput struct {
	Username string
	Password string
	Name     string
}
