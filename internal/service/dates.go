package service

import "time"

const dateLayout = "2006-01-02"

// parseDate разбирает дату формата YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseDatePtr разбирает необязательную дату
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
