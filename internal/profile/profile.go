// Package profile derives numerology and astrology attributes from a date
// of birth. Everything here is pure; no clock, no I/O.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted date of birth format.
const DateLayout = "2006-01-02"

// ErrInvalidInput is wrapped by every error returned for a malformed date.
var ErrInvalidInput = errors.New("invalid date of birth")

// Attributes are the values prompts are built from.
type Attributes struct {
	// DOB is the normalized date of birth (YYYY-MM-DD).
	DOB string
	// LifePath is the reduced digit sum of the full date.
	LifePath int
	// BirthdayNumber is the reduced day of month.
	BirthdayNumber int
	// SunSign is the tropical zodiac sign.
	SunSign string
	// Element is the classical element of SunSign.
	Element string
	// ChineseZodiac is the animal of the Gregorian birth year.
	ChineseZodiac string
}

// Func computes Attributes from a raw date string.
type Func func(dob string) (Attributes, error)

// Compute parses dob and derives its attributes.
func Compute(dob string) (Attributes, error) {
	trimmed := strings.TrimSpace(dob)
	if trimmed == "" {
		return Attributes{}, fmt.Errorf("%w: empty value", ErrInvalidInput)
	}
	date, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return Attributes{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidInput, dob)
	}

	sign := SunSign(date.Month(), date.Day())
	return Attributes{
		DOB:            date.Format(DateLayout),
		LifePath:       LifePath(date),
		BirthdayNumber: reduce(date.Day()),
		SunSign:        sign,
		Element:        elements[sign],
		ChineseZodiac:  ChineseZodiac(date.Year()),
	}, nil
}

// LifePath sums every digit of the date and reduces it, keeping master
// numbers 11, 22 and 33.
func LifePath(date time.Time) int {
	return reduce(digitSum(date.Year()) + digitSum(int(date.Month())) + digitSum(date.Day()))
}

func reduce(n int) int {
	for n > 9 && n != 11 && n != 22 && n != 33 {
		n = digitSum(n)
	}
	return n
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// signStart holds the first day of each sign, in calendar order.
var signStart = []struct {
	month time.Month
	day   int
	sign  string
}{
	{time.January, 20, "Aquarius"},
	{time.February, 19, "Pisces"},
	{time.March, 21, "Aries"},
	{time.April, 20, "Taurus"},
	{time.May, 21, "Gemini"},
	{time.June, 21, "Cancer"},
	{time.July, 23, "Leo"},
	{time.August, 23, "Virgo"},
	{time.September, 23, "Libra"},
	{time.October, 23, "Scorpio"},
	{time.November, 22, "Sagittarius"},
	{time.December, 22, "Capricorn"},
}

// SunSign returns the tropical zodiac sign for a month and day.
func SunSign(month time.Month, day int) string {
	sign := "Capricorn"
	for _, start := range signStart {
		if month > start.month || (month == start.month && day >= start.day) {
			sign = start.sign
		}
	}
	return sign
}

var elements = map[string]string{
	"Aries": "Fire", "Leo": "Fire", "Sagittarius": "Fire",
	"Taurus": "Earth", "Virgo": "Earth", "Capricorn": "Earth",
	"Gemini": "Air", "Libra": "Air", "Aquarius": "Air",
	"Cancer": "Water", "Scorpio": "Water", "Pisces": "Water",
}

var animals = []string{
	"Rat", "Ox", "Tiger", "Rabbit", "Dragon", "Snake",
	"Horse", "Goat", "Monkey", "Rooster", "Dog", "Pig",
}

// ChineseZodiac returns the animal for a Gregorian year. Lunar new year
// boundaries are ignored.
func ChineseZodiac(year int) string {
	idx := (year - 1900) % 12
	if idx < 0 {
		idx += 12
	}
	return animals[idx]
}
