package models

// DailyTotal is the number of likes created on one calendar day (UTC),
// across all users and targets. Derived at query time, never persisted.
type DailyTotal struct {
	Date       string `json:"date"` // YYYY-MM-DD
	TotalLikes int64  `json:"total_likes"`
}
