package booking

import (
	"fmt"
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// StayQuote is the priced result of a date range at a nightly rate.
type StayQuote struct {
	Nights      int
	NightlyRate Amount
	TotalAmount Amount
}

// StayDates is a check-in/check-out pair. Zero values mean "not selected".
type StayDates struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// CalculateStay prices a stay. Each date is truncated to its calendar day, so time-of-day components never change
// the night count. Same-day and reversed ranges are rejected rather than charged zero.
func CalculateStay(checkIn time.Time, checkOut time.Time, nightlyRate Amount) (StayQuote, error) {
	if nightlyRate <= 0 {
		return StayQuote{}, fmt.Errorf("%w: nightly rate must be greater than zero", ErrInvalidAmount)
	}
	nights := CountNights(checkIn, checkOut)
	if nights <= 0 {
		return StayQuote{}, fmt.Errorf("%w: %d nights", ErrInvalidStayRange, nights)
	}
	if int64(nights) > math.MaxInt64/nightlyRate.Int64() {
		return StayQuote{}, fmt.Errorf("%w: %d nights at %d overflows the total", ErrInvalidAmount, nights, nightlyRate)
	}
	return StayQuote{
		Nights:      nights,
		NightlyRate: nightlyRate,
		TotalAmount: Amount(int64(nights) * nightlyRate.Int64()),
	}, nil
}

// CountNights returns the number of calendar days between checkIn and checkOut. Both days start at UTC midnight,
// so the difference in Unix seconds is always a whole number of days and needs no rounding.
func CountNights(checkIn time.Time, checkOut time.Time) int {
	return int((calendarDay(checkOut).Unix() - calendarDay(checkIn).Unix()) / secondsPerDay)
}

func calendarDay(moment time.Time) time.Time {
	year, month, day := moment.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
