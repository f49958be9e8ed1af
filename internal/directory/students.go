package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vanshika/campusnav/internal/domain"
)

// ErrMalformedDirectory indicates a students document that cannot be decoded.
var ErrMalformedDirectory = errors.New("malformed students document")

// ClassWire is a class session as exposed on the wire and stored in students.json.
type ClassWire struct {
	Date       string `json:"data"`
	Weekday    string `json:"dia_semana,omitempty"`
	Subject    string `json:"disciplina"`
	Time       string `json:"horário"`
	Room       string `json:"sala"`
	RoomNodeID string `json:"sala_id"`
}

// legacyClass is one entry of the older date-keyed schedule format.
type legacyClass struct {
	Subject  string `json:"subject"`
	Time     string `json:"time"`
	RoomNode string `json:"room_node"`
}

type studentRecord struct {
	Name     string                   `json:"name"`
	Role     string                   `json:"role,omitempty"`
	Classes  []ClassWire              `json:"aulas_da_semana,omitempty"`
	Schedule map[string][]legacyClass `json:"schedule,omitempty"`
}

// DecodeStudents reads a students.json document keyed by matricula. Both the
// aulas_da_semana list and the legacy schedule map are accepted; the list wins
// when it is non-empty. Students are returned ordered by matricula.
func DecodeStudents(r io.Reader) ([]domain.Student, error) {
	var raw map[string]studentRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDirectory, err)
	}

	out := make([]domain.Student, 0, len(raw))
	for matricula, rec := range raw {
		matricula = strings.TrimSpace(matricula)
		if matricula == "" {
			return nil, fmt.Errorf("%w: blank matricula", ErrMalformedDirectory)
		}
		out = append(out, domain.Student{
			Matricula: matricula,
			Name:      rec.Name,
			Role:      rec.Role,
			Classes:   rec.classes(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Matricula < out[j].Matricula })
	return out, nil
}

func (rec studentRecord) classes() []domain.ClassSession {
	if len(rec.Classes) > 0 {
		out := make([]domain.ClassSession, 0, len(rec.Classes))
		for _, c := range rec.Classes {
			out = append(out, c.Session())
		}
		return out
	}

	dates := make([]string, 0, len(rec.Schedule))
	for d := range rec.Schedule {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []domain.ClassSession
	for _, d := range dates {
		for _, c := range rec.Schedule[d] {
			out = append(out, domain.ClassSession{
				Date:       d,
				Subject:    c.Subject,
				Time:       c.Time,
				Room:       c.RoomNode,
				RoomNodeID: c.RoomNode,
			})
		}
	}
	return out
}

// Session converts the wire form into the domain value.
func (c ClassWire) Session() domain.ClassSession {
	return domain.ClassSession{
		Date:       c.Date,
		Weekday:    c.Weekday,
		Subject:    c.Subject,
		Time:       c.Time,
		Room:       c.Room,
		RoomNodeID: c.RoomNodeID,
	}
}

// ToClassWire converts sessions into their wire form. A nil input yields an empty slice.
func ToClassWire(sessions []domain.ClassSession) []ClassWire {
	out := make([]ClassWire, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ClassWire{
			Date:       s.Date,
			Weekday:    s.Weekday,
			Subject:    s.Subject,
			Time:       s.Time,
			Room:       s.Room,
			RoomNodeID: s.RoomNodeID,
		})
	}
	return out
}

// EncodeStudents writes students in the aulas_da_semana format.
func EncodeStudents(w io.Writer, students []domain.Student) error {
	doc := make(map[string]studentRecord, len(students))
	for _, s := range students {
		doc[s.Matricula] = studentRecord{
			Name:    s.Name,
			Role:    s.Role,
			Classes: ToClassWire(s.Classes),
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
