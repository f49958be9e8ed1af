package domain

import "time"

// Student is a directory entry identified by enrolment number (matricula).
type Student struct {
	Matricula string
	Name      string
	Role      string
	Classes   []ClassSession
	CreatedAt time.Time
}

// ClassSession is one scheduled class, normalized from either schedule format.
type ClassSession struct {
	Date       string
	Weekday    string
	Subject    string
	Time       string
	Room       string
	RoomNodeID string
}

// Admin is an operator account able to manage the directory.
type Admin struct {
	Username     string
	PasswordHash string
	Name         string
}

// DefaultStudentRole is assigned when a directory record carries no role.
const DefaultStudentRole = "student"
