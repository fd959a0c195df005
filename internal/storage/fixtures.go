package storage

import (
	"fmt"
	"time"

	"github.com/pdxmph/todo-tui/internal/task"
)

// Fixtures returns a realistic sample task list dated relative to now
func Fixtures(now time.Time) []task.Task {
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(task.DateLayout)
	}

	return []task.Task{
		// Done already
		{Description: "Renew passport", Priority: task.High, DateAdded: day(21), Status: task.Completed},
		{Description: "Book dentist appointment", Priority: task.Medium, DateAdded: day(14), Status: task.Completed},

		// This week
		{Description: "Pay electricity bill", Priority: task.High, DateAdded: day(6), Status: task.Pending},
		{Description: "Call bank about card replacement", Priority: task.High, DateAdded: day(3), Status: task.Pending},
		{Description: "Buy milk", Priority: task.Medium, DateAdded: day(1), Status: task.Pending},
		{Description: "Reply to Sam about the weekend", Priority: task.Medium, DateAdded: day(1), Status: task.Completed},

		// Someday
		{Description: "Clean out the garage", Priority: task.Low, DateAdded: day(40), Status: task.Pending},
		{Description: "Read the book club pick", Priority: task.Low, DateAdded: day(9), Status: task.Pending},
		{Description: "Water plants", Priority: task.Low, DateAdded: day(0), Status: task.Pending},
	}
}

// Seed writes the fixture tasks into empty storage and returns how many were written
func Seed(b Backend, now time.Time) (int, error) {
	existing, err := b.Load()
	if err != nil {
		return 0, fmt.Errorf("loading existing tasks: %w", err)
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("storage at %s already has %d tasks", b.Location(), len(existing))
	}

	fixtures := Fixtures(now)
	if err := b.Save(fixtures); err != nil {
		return 0, fmt.Errorf("saving fixtures: %w", err)
	}

	return len(fixtures), nil
}
