package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/quotaflow/quotaflow/internal/domain"
)

var accounts = []string{
	"Acme Corp", "Globex", "Initech", "Umbrella Health", "Stark Industries",
	"Wayne Logistics", "Hooli", "Vandelay Imports", "Pied Piper", "Dunder Mifflin",
	"Cyberdyne Systems", "Wonka Foods", "Sterling Cooper", "Bluth Development",
	"Tyrell Analytics",
}

var activities = []string{
	"Follow up with", "Send proposal to", "Schedule demo for", "Renew contract with",
	"Qualify lead at", "Prepare quote for", "Close deal with", "Onboard",
	"Upsell support plan to", "Review pricing for",
}

var priorities = []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}
var statuses = []domain.Status{domain.StatusTodo, domain.StatusInProgress, domain.StatusDone}

// Synthetic generates a deterministic dataset of n sales tasks spread
// over the ten weeks before now, with roughly a third completed.
func Synthetic(n int, now time.Time) []domain.Task {
	rng := rand.New(rand.NewPCG(42, 7))
	now = now.UTC()

	out := make([]domain.Task, 0, n)
	for i := 0; i < n; i++ {
		account := accounts[rng.IntN(len(accounts))]
		activity := activities[rng.IntN(len(activities))]
		createdDaysAgo := rng.IntN(70)
		created := now.AddDate(0, 0, -createdDaysAgo)

		task := domain.Task{
			ID:        fmt.Sprintf("seed-%03d", i+1),
			Title:     fmt.Sprintf("%s %s #%d", activity, account, i+1),
			Revenue:   float64(rng.IntN(200)) * 50,
			TimeTaken: float64(rng.IntN(39)+1) / 2,
			Priority:  priorities[rng.IntN(len(priorities))],
			Status:    statuses[rng.IntN(len(statuses))],
			CreatedAt: created,
		}
		if task.Status == domain.StatusDone {
			completed := created.AddDate(0, 0, rng.IntN(14))
			if completed.After(now) {
				completed = now
			}
			task.CompletedAt = &completed
		}
		out = append(out, task)
	}
	return out
}
