package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBudget_SpendWindowIsUTC(t *testing.T) {
	b := &Budget{
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}

	start, end := b.SpendWindow()

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.January, 31, 23, 59, 59, 999999999, time.UTC), end)

	// 23:30 at UTC-5 on Jan 31 is 04:30 UTC on Feb 1
	late := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	assert.True(t, late.After(end))

	early := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC)
	assert.False(t, early.After(end))
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, time.March, 5, 18, 45, 0, 0, time.FixedZone("CET", 60*60))

	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
