package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidZone(t *testing.T) {
	_, err := New("Not/AZone")
	assert.Error(t, err)

	_, err = New("")
	assert.Error(t, err)
}

func TestNew_ValidZones(t *testing.T) {
	for _, zone := range []string{"UTC", "America/New_York", "Europe/Berlin"} {
		svc, err := New(zone)
		require.NoError(t, err, "zone %s should load", zone)
		assert.Equal(t, zone, svc.Location().String())
	}
}

func TestStartOfDay_IgnoresHostZone(t *testing.T) {
	svc, err := New("America/New_York")
	require.NoError(t, err)

	// 2024-03-15 03:30 UTC is still 2024-03-14 23:30 in New York
	utc := time.Date(2024, 3, 15, 3, 30, 0, 0, time.UTC)
	start := svc.StartOfDay(utc)

	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 14, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, "America/New_York", start.Location().String())
}

func TestNextDayStart(t *testing.T) {
	svc, err := New("America/New_York")
	require.NoError(t, err)

	noon := time.Date(2024, 6, 1, 12, 0, 0, 0, svc.Location())
	next := svc.NextDayStart(noon)

	assert.Equal(t, 2, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 24*time.Hour, next.Sub(svc.StartOfDay(noon)))
}

func TestNextDayStart_SpringForward(t *testing.T) {
	svc, err := New("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is the spring-forward day in the US: only 23 hours long
	beforeDST := time.Date(2024, 3, 10, 1, 0, 0, 0, svc.Location())
	next := svc.NextDayStart(beforeDST)

	assert.Equal(t, 11, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 23*time.Hour, next.Sub(svc.StartOfDay(beforeDST)))
}

func TestSameDay(t *testing.T) {
	svc, err := New("America/New_York")
	require.NoError(t, err)

	morning := time.Date(2024, 6, 1, 0, 0, 1, 0, svc.Location())
	night := time.Date(2024, 6, 1, 23, 59, 59, 0, svc.Location())
	nextDay := time.Date(2024, 6, 2, 0, 0, 0, 0, svc.Location())

	assert.True(t, svc.SameDay(morning, night))
	assert.False(t, svc.SameDay(night, nextDay))
}

func TestSameDay_AcrossZones(t *testing.T) {
	svc, err := New("America/New_York")
	require.NoError(t, err)

	// 2024-06-02 01:00 UTC is 2024-06-01 21:00 in New York
	utcLate := time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)
	nyEvening := time.Date(2024, 6, 1, 18, 0, 0, 0, svc.Location())

	assert.True(t, svc.SameDay(utcLate, nyEvening))
}

func TestDayHasPassed(t *testing.T) {
	fixed := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	svc, err := NewWithNow("UTC", func() time.Time { return fixed })
	require.NoError(t, err)

	yesterday := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)

	assert.True(t, svc.DayHasPassed(yesterday))
	assert.False(t, svc.DayHasPassed(today))
}

func TestNow_UsesInjectedSource(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewWithNow("America/New_York", func() time.Time { return fixed })
	require.NoError(t, err)

	now := svc.Now()
	assert.True(t, now.Equal(fixed))
	assert.Equal(t, "America/New_York", now.Location().String())
	assert.Equal(t, 7, now.Hour(), "noon UTC is 07:00 in New York (EST -5)")
}
