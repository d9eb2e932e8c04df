package format

import (
	"fmt"
	"time"
)

// The month-12 leap years inside each 33-year cycle. This is the same
// approximation the legacy panel shipped with; keep it exactly as-is so
// stored dates keep lining up.
var leapRemainders = map[int]bool{
	1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true,
}

// JalaliDate is a (year, month, day) triple in the Persian solar calendar.
type JalaliDate struct {
	Year  int
	Month int // 1..12
	Day   int // 1..31
}

// String renders the date the way the app stores it: "1404/06/08".
func (d JalaliDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// PeriodKey is the profit-allocation period this date belongs to: "1404/06".
func (d JalaliDate) PeriodKey() string {
	return PeriodKey(d.Year, d.Month)
}

// PeriodKey normalizes a (year, month) pair to the zero-padded key every
// payment row and invoice-date prefix uses.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d/%02d", year, month)
}

// TodayJalali returns the current date in the Jalali calendar.
func TodayJalali() JalaliDate {
	return JalaliFromTime(time.Now())
}

// JalaliFromTime converts a Gregorian instant to its Jalali date.
func JalaliFromTime(t time.Time) JalaliDate {
	gy, gm, gd := t.Date()
	jy, jm, jd := gregorianToJalali(gy, int(gm), gd)
	return JalaliDate{Year: jy, Month: jm, Day: jd}
}

// DaysInJalaliMonth reports how many days the given Jalali month has:
// 31 for months 1-6, 30 for months 7-11, and for month 12 either 30
// (leap year per the 33-year cycle) or 29.
func DaysInJalaliMonth(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if leapRemainders[year%33] {
			return 30
		}
		return 29
	}
	return 0
}

// gregorianToJalali is the classic integer conversion tied to the same
// 33-year cycle as DaysInJalaliMonth.
func gregorianToJalali(gy, gm, gd int) (int, int, int) {
	gdm := [...]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gdm[gm-1]
	jy := -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd
}
