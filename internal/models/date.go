package models

import "time"

const DateLayout = time.DateOnly

// Date truncates t to its calendar date and returns it as midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
