package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanshika/campusnav/internal/domain"
)

// GateID is the waypoint every generated campus is entered through.
const GateID = "gate"

// Dataset contains the generated campus map and student directory.
type Dataset struct {
	Map      domain.MapDocument
	Students []domain.Student
}

// Generator produces synthetic campuses: a grid of buildings joined by outdoor paths,
// each building a hall with a corridor of rooms, plus students whose classes sit in those rooms.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Buildings <= 0 {
		cfg.Buildings = def.Buildings
	}
	if cfg.RoomsPerBuilding <= 0 {
		cfg.RoomsPerBuilding = def.RoomsPerBuilding
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.ShortcutChance < 0 {
		cfg.ShortcutChance = 0
	}
	if cfg.NumStudents < 0 {
		cfg.NumStudents = 0
	}
	if cfg.ClassesPerStudent <= 0 {
		cfg.ClassesPerStudent = def.ClassesPerStudent
	}
	if cfg.WeekStart.IsZero() {
		cfg.WeekStart = def.WeekStart
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises a campus and its students. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	doc, rooms := g.campus()

	students := make([]domain.Student, 0, g.cfg.NumStudents)
	for i := 0; i < g.cfg.NumStudents; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		students = append(students, g.student(i, doc, rooms))
	}
	return Dataset{Map: doc, Students: students}, nil
}

func buildingHallID(b int) string { return fmt.Sprintf("b%d_hall", b+1) }

func roomID(b, r int) string { return fmt.Sprintf("b%d_%d", b+1, 101+r) }

func (g *Generator) campus() (domain.MapDocument, []string) {
	doc := domain.MapDocument{Nodes: make(map[string]domain.Waypoint)}
	var rooms []string

	cols := int(math.Ceil(math.Sqrt(float64(g.cfg.Buildings))))
	halls := make([]domain.Waypoint, g.cfg.Buildings)

	doc.Nodes[GateID] = domain.Waypoint{ID: GateID, X: 0, Y: 0, Name: "Portão Principal"}

	for b := 0; b < g.cfg.Buildings; b++ {
		row, col := b/cols, b%cols
		hall := domain.Waypoint{
			ID:   buildingHallID(b),
			X:    float64(col+1) * g.cfg.Spacing,
			Y:    float64(row+1) * g.cfg.Spacing,
			Name: fmt.Sprintf("Bloco %s - Hall", blockLetter(b)),
		}
		halls[b] = hall
		doc.Nodes[hall.ID] = hall

		prev := hall
		for r := 0; r < g.cfg.RoomsPerBuilding; r++ {
			room := domain.Waypoint{
				ID:   roomID(b, r),
				X:    hall.X + float64(r+1)*g.cfg.Spacing/float64(g.cfg.RoomsPerBuilding+2),
				Y:    hall.Y + g.jitter(),
				Name: fmt.Sprintf("Sala %d - Bloco %s", 101+r, blockLetter(b)),
			}
			doc.Nodes[room.ID] = room
			rooms = append(rooms, room.ID)
			doc.Edges = append(doc.Edges, corridor(prev, room))
			prev = room
		}

		if col > 0 {
			doc.Edges = append(doc.Edges, corridor(halls[b-1], hall))
		}
		if row > 0 {
			doc.Edges = append(doc.Edges, corridor(halls[b-cols], hall))
			if col > 0 && g.rand.Float64() < g.cfg.ShortcutChance {
				doc.Edges = append(doc.Edges, corridor(halls[b-cols-1], hall))
			}
		}
	}

	if g.cfg.Buildings > 0 {
		doc.Edges = append(doc.Edges, corridor(doc.Nodes[GateID], halls[0]))
	}
	return doc, rooms
}

// jitter offsets rooms slightly so the rendered corridor is not a ruler line.
func (g *Generator) jitter() float64 {
	return math.Round((g.rand.Float64()-0.5)*g.cfg.Spacing*0.1*10) / 10
}

func corridor(a, b domain.Waypoint) domain.Corridor {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	return domain.Corridor{From: a.ID, To: b.ID, Weight: math.Round(d*10) / 10}
}

func blockLetter(b int) string {
	if b < 26 {
		return string(rune('A' + b))
	}
	return fmt.Sprintf("%d", b+1)
}

func (g *Generator) student(i int, doc domain.MapDocument, rooms []string) domain.Student {
	st := domain.Student{
		Matricula: fmt.Sprintf("2024%04d", i+1),
		Name:      g.randomFullName(),
		Role:      domain.DefaultStudentRole,
	}
	if len(rooms) == 0 {
		return st
	}

	for c := 0; c < g.cfg.ClassesPerStudent; c++ {
		day := g.rand.Intn(len(g.nameFragments.weekdays))
		room := rooms[g.rand.Intn(len(rooms))]
		st.Classes = append(st.Classes, domain.ClassSession{
			Date:       g.cfg.WeekStart.AddDate(0, 0, day).Format(time.DateOnly),
			Weekday:    g.nameFragments.weekdays[day],
			Subject:    g.nameFragments.subjects[g.rand.Intn(len(g.nameFragments.subjects))],
			Time:       g.nameFragments.slots[g.rand.Intn(len(g.nameFragments.slots))],
			Room:       doc.Nodes[room].Name,
			RoomNodeID: room,
		})
	}
	return st
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.first[g.rand.Intn(len(g.nameFragments.first))],
		g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))])
}

type nameFragments struct {
	first    []string
	last     []string
	subjects []string
	slots    []string
	weekdays []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:    []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Felipe", "Gabriela", "Heitor", "Isabela", "João", "Larissa", "Mateus", "Natália", "Otávio", "Paula", "Rafael"},
		last:     []string{"Silva", "Souza", "Oliveira", "Santos", "Lima", "Pereira", "Costa", "Ferreira", "Almeida", "Ribeiro", "Carvalho", "Gomes"},
		subjects: []string{"Cálculo I", "Álgebra Linear", "Física I", "Química Geral", "Algoritmos", "Estruturas de Dados", "Banco de Dados", "Redes de Computadores", "Estatística", "Sistemas Operacionais"},
		slots:    []string{"07:30", "09:20", "11:10", "13:30", "15:20", "19:00"},
		weekdays: []string{"segunda", "terça", "quarta", "quinta", "sexta"},
	}
}
