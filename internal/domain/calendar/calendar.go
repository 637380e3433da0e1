package calendar

import (
	"fmt"
	"math"
	"time"
)

// Name is a label in Korean and English.
type Name struct {
	Ko string `json:"ko"`
	En string `json:"en"`
}

// TraditionalDate is the decorative East Asian reading of a Gregorian day.
// The lunar month and day come from fixed offsets, not from a lunisolar
// conversion, so Approximate is always true.
type TraditionalDate struct {
	Date        string `json:"date"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	LunarMonth  int    `json:"lunar_month"`
	LunarDay    int    `json:"lunar_day"`
	Element     Name   `json:"element"`
	Zodiac      Name   `json:"zodiac"`
	Season      Name   `json:"season"`
	Festival    *Name  `json:"festival,omitempty"`
	Approximate bool   `json:"approximate"`
}

var elements = [5]Name{
	{Ko: "목", En: "wood"},
	{Ko: "화", En: "fire"},
	{Ko: "토", En: "earth"},
	{Ko: "금", En: "metal"},
	{Ko: "수", En: "water"},
}

// indexed by year % 12
var zodiacs = [12]Name{
	{Ko: "원숭이", En: "monkey"},
	{Ko: "닭", En: "rooster"},
	{Ko: "개", En: "dog"},
	{Ko: "돼지", En: "pig"},
	{Ko: "쥐", En: "rat"},
	{Ko: "소", En: "ox"},
	{Ko: "호랑이", En: "tiger"},
	{Ko: "토끼", En: "rabbit"},
	{Ko: "용", En: "dragon"},
	{Ko: "뱀", En: "snake"},
	{Ko: "말", En: "horse"},
	{Ko: "양", En: "goat"},
}

var (
	spring = Name{Ko: "봄", En: "spring"}
	summer = Name{Ko: "여름", En: "summer"}
	autumn = Name{Ko: "가을", En: "autumn"}
	winter = Name{Ko: "겨울", En: "winter"}
)

// indexed by month-1
var seasons = [12]Name{
	winter, winter, spring, spring, spring, summer,
	summer, summer, autumn, autumn, autumn, winter,
}

// Keyed by Gregorian "{month}-{day}". Lunar holidays sit on fixed
// approximate dates.
var festivals = map[string]Name{
	"1-1":   {Ko: "신정", En: "New Year's Day"},
	"2-10":  {Ko: "설날", En: "Seollal"},
	"3-1":   {Ko: "삼일절", En: "Independence Movement Day"},
	"5-5":   {Ko: "어린이날", En: "Children's Day"},
	"5-15":  {Ko: "부처님 오신 날", En: "Buddha's Birthday"},
	"6-6":   {Ko: "현충일", En: "Memorial Day"},
	"8-15":  {Ko: "광복절", En: "Liberation Day"},
	"9-17":  {Ko: "추석", En: "Chuseok"},
	"10-3":  {Ko: "개천절", En: "National Foundation Day"},
	"10-9":  {Ko: "한글날", En: "Hangeul Day"},
	"12-25": {Ko: "성탄절", En: "Christmas"},
}

// Resolve computes the traditional reading of t. It only looks at t's
// calendar date in t's own location.
func Resolve(t time.Time) TraditionalDate {
	year, m, day := t.Date()
	month := int(m)

	td := TraditionalDate{
		Date:        t.Format("2006-01-02"),
		Year:        year,
		Month:       month,
		Day:         day,
		LunarMonth:  ((month + 10) % 12) + 1,
		LunarDay:    int(math.Floor(float64(day)*0.95)) + 1,
		Element:     elements[mod(year, 5)],
		Zodiac:      zodiacs[mod(year, 12)],
		Season:      seasons[month-1],
		Approximate: true,
	}
	if f, ok := FestivalOn(month, day); ok {
		td.Festival = &f
	}
	return td
}

// FestivalOn looks up the fixed festival table.
func FestivalOn(month, day int) (Name, bool) {
	f, ok := festivals[fmt.Sprintf("%d-%d", month, day)]
	return f, ok
}

// Month resolves every day of the given month.
func Month(year, month int) ([]TraditionalDate, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year out of range: %d", year)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]TraditionalDate, 0, days)
	for d := 0; d < days; d++ {
		out = append(out, Resolve(first.AddDate(0, 0, d)))
	}
	return out, nil
}

// ParseDate parses YYYY-MM-DD; an empty string means today.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	return time.ParseInLocation("2006-01-02", s, now.Location())
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
