package generator

import "time"

// Config drives the synthetic campus generator.
type Config struct {
	Buildings        int
	RoomsPerBuilding int
	// Spacing is the distance between neighbouring building entrances.
	Spacing float64
	// ShortcutChance is the probability of a diagonal path between two building entrances.
	ShortcutChance    float64
	NumStudents       int
	ClassesPerStudent int
	// WeekStart is the Monday of the generated teaching week.
	WeekStart time.Time
	Seed      int64
}

// DefaultConfig returns a mid-sized campus suitable for demos and load tests.
func DefaultConfig() Config {
	return Config{
		Buildings:         9,
		RoomsPerBuilding:  12,
		Spacing:           60,
		ShortcutChance:    0.3,
		NumStudents:       500,
		ClassesPerStudent: 6,
		WeekStart:         time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Seed:              42,
	}
}
