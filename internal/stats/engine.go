// Package stats derives summary statistics from the raw submission
// list. All functions are pure: they take the snapshot as delivered by
// the store and never touch it.
package stats

import (
	"github.com/formtemplates/backend/internal/models"
)

// dayLayout is the display format for per-day buckets ("Jan 02").
const dayLayout = "Jan 02"

// TotalCount returns the number of submissions.
func TotalCount(subs []models.Submission) int {
	return len(subs)
}

// AverageFirstAnswer parses the first answer of each submission as a
// number, treating missing or unparsable values as 0, and returns the
// arithmetic mean. An empty snapshot yields 0, not an error.
func AverageFirstAnswer(subs []models.Submission) float64 {
	if len(subs) == 0 {
		return 0
	}
	var sum float64
	for _, s := range subs {
		if len(s.Answers) == 0 {
			continue
		}
		if n, ok := s.Answers[0].Answer.Numeric(); ok {
			sum += n
		}
	}
	return sum / float64(len(subs))
}

// DayCount is one per-day histogram bucket.
type DayCount struct {
	Day   string `json:"date"`
	Count int    `json:"responses"`
}

// CountByDay buckets submissions by the calendar day of submittedAt.
// Bucket order follows the first occurrence of each day in the input
// sequence, not calendar order: the source snapshot arrives in
// insertion order and the chart renders buckets as encountered.
func CountByDay(subs []models.Submission) []DayCount {
	index := make(map[string]int)
	var buckets []DayCount
	for _, s := range subs {
		day := s.SubmittedAt.Format(dayLayout)
		if i, ok := index[day]; ok {
			buckets[i].Count++
			continue
		}
		index[day] = len(buckets)
		buckets = append(buckets, DayCount{Day: day, Count: 1})
	}
	return buckets
}

// Latest returns the submission the reporting view shows as most
// recent: the last element of the snapshot as received from the store,
// not the one with the maximum submittedAt. Nil for an empty snapshot.
func Latest(subs []models.Submission) *models.Submission {
	if len(subs) == 0 {
		return nil
	}
	return &subs[len(subs)-1]
}

// Recent returns up to n submissions from the tail of the snapshot,
// oldest first.
func Recent(subs []models.Submission, n int) []models.Submission {
	if len(subs) <= n {
		return subs
	}
	return subs[len(subs)-n:]
}
