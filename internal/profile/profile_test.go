package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	attrs, err := Compute(" 1990-07-15 ")
	require.NoError(t, err)

	// 1+9+9+0 + 7 + 1+5 = 32 -> 5
	assert.Equal(t, Attributes{
		DOB:            "1990-07-15",
		LifePath:       5,
		BirthdayNumber: 6,
		SunSign:        "Cancer",
		Element:        "Water",
		ChineseZodiac:  "Horse",
	}, attrs)
}

func TestCompute_MasterNumbers(t *testing.T) {
	// 1+9+8+4 + 1+1 + 2+9 = 35 -> 8
	attrs, err := Compute("1984-11-29")
	require.NoError(t, err)
	assert.Equal(t, 8, attrs.LifePath)
	assert.Equal(t, 11, attrs.BirthdayNumber)

	// 2+0+0+9 + 0+2 + 0+9 = 22
	attrs, err = Compute("2009-02-09")
	require.NoError(t, err)
	assert.Equal(t, 22, attrs.LifePath)
}

func TestCompute_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "15/07/1990", "1990-13-01", "1990-02-30", "tomorrow"} {
		_, err := Compute(input)
		require.Error(t, err, input)
		assert.ErrorIs(t, err, ErrInvalidInput, input)
	}
}

func TestSunSign_Boundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.January, 1, "Capricorn"},
		{time.January, 19, "Capricorn"},
		{time.January, 20, "Aquarius"},
		{time.March, 20, "Pisces"},
		{time.March, 21, "Aries"},
		{time.December, 21, "Sagittarius"},
		{time.December, 22, "Capricorn"},
		{time.December, 31, "Capricorn"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SunSign(tt.month, tt.day), "%s %d", tt.month, tt.day)
	}
}

func TestChineseZodiac(t *testing.T) {
	assert.Equal(t, "Rat", ChineseZodiac(1900))
	assert.Equal(t, "Dragon", ChineseZodiac(2000))
	assert.Equal(t, "Pig", ChineseZodiac(1899))
	assert.Equal(t, "Snake", ChineseZodiac(2025))
}
