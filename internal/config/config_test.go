package config

import (
	"testing"
	"time"
)

func TestParseDayTime(t *testing.T) {
	ok := []struct {
		in   string
		want DayTime
	}{
		{"09:45", DayTime{9, 45}},
		{"22:30", DayTime{22, 30}},
		{"0:0", DayTime{0, 0}},
		{" 23:59 ", DayTime{23, 59}},
	}
	for _, tc := range ok {
		got, err := ParseDayTime(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: получили %v, ожидали %v", tc.in, got, tc.want)
		}
	}

	bad := []string{"", "2230", "24:00", "12:60", "a:b", "12"}
	for _, in := range bad {
		if _, err := ParseDayTime(in); err == nil {
			t.Errorf("%q: ожидали ошибку", in)
		}
	}
}

func TestDayTimeAt(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata недоступна")
	}
	now := time.Date(2025, 9, 1, 8, 12, 45, 0, loc)
	got := DayTime{Hour: 22, Minute: 30}.At(now)
	want := time.Date(2025, 9, 1, 22, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("получили %v, ожидали %v", got, want)
	}
}
