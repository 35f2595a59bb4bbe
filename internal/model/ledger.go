package model

import "time"

// LedgerCap bounds the history ledger
const LedgerCap = 100

// LedgerEntry is one raw score report
type LedgerEntry struct {
	Date time.Time `json:"date"`
	XP   int       `json:"xp"`
}

// DayActivity is the summed XP for one weekday
type DayActivity struct {
	Day string `json:"day"`
	XP  int    `json:"xp"`
}

// WeekOrder is the presentation order of weekly activity
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}
