package domain

import "time"

// DailyBucket counts grievances for one day, category and priority.
type DailyBucket struct {
	Date     string
	Category Category
	Priority Priority
	Count    int
}

// Statistics is the aggregate view served to dashboards.
type Statistics struct {
	Total       int
	ByStatus    map[Status]int
	ByCategory  map[Category]int
	ByPriority  map[Priority]int
	RecentTrend map[string]int
	Daily       []DailyBucket
	ComputedAt  time.Time
}

// NewStatistics returns an empty aggregate with initialized maps.
func NewStatistics() *Statistics {
	return &Statistics{
		ByStatus:    make(map[Status]int),
		ByCategory:  make(map[Category]int),
		ByPriority:  make(map[Priority]int),
		RecentTrend: make(map[string]int),
	}
}
