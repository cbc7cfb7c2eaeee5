// Package slots строит сетку временных слотов для бронирования корта.
package slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

// ErrInvalidGrid возвращается при некорректных параметрах сетки.
var ErrInvalidGrid = errors.New("invalid slot grid")

const labelLayout = "15:04"

// Build возвращает слоты дня day с шагом minutes от openHour:00 до closeHour:00, не включая closeHour.
func Build(day time.Time, openHour, closeHour, minutes int) ([]model.Slot, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: slot length %d must be positive", ErrInvalidGrid, minutes)
	}
	if openHour < 0 || closeHour > 24 || closeHour <= openHour {
		return nil, fmt.Errorf("%w: hours %d-%d", ErrInvalidGrid, openHour, closeHour)
	}

	y, m, d := day.Date()
	start := time.Date(y, m, d, openHour, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, closeHour, 0, 0, 0, day.Location())
	step := time.Duration(minutes) * time.Minute

	res := make([]model.Slot, 0, int(end.Sub(start)/step)+1)
	for t := start; t.Before(end); t = t.Add(step) {
		label := t.Format(labelLayout)
		res = append(res, model.Slot{
			ID:    label,
			Label: label,
			Start: t,
		})
	}

	return res, nil
}
