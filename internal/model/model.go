// Package model содержит доменные сущности микросайта клуба.
package model

import "time"

// Settings содержит настройки клуба: сетку бронирования и политику предоплаты.
type Settings struct {
	SlotMinutes       int `json:"slot_minutes" validate:"min=1,max=1440"`
	OpenHour          int `json:"open_hour" validate:"min=0,max=23"`
	CloseHour         int `json:"close_hour" validate:"gtfield=OpenHour,max=24"`
	PrepaymentPercent int `json:"prepayment_percent" validate:"min=0,max=100"`
	CancellationHours int `json:"cancellation_hours" validate:"min=0"`
}

// ClubConfig содержит часть настроек, которую использует симуляция аналитики.
type ClubConfig struct {
	PrepaymentPercent int
}

// Config возвращает входные данные симуляции для текущих настроек.
func (s Settings) Config() ClubConfig {
	return ClubConfig{PrepaymentPercent: s.PrepaymentPercent}
}

// Court описывает корт клуба.
type Court struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required,max=64"`
	Surface string `json:"surface" validate:"oneof='Césped sintético' Carpet Muro Vidrio"`
	Indoor  bool   `json:"indoor"`
}

// CourtDraft описывает новый корт из панели администратора. Пустые поля заполняются по умолчанию.
type CourtDraft struct {
	Name    string `json:"name"`
	Surface string `json:"surface"`
	Indoor  bool   `json:"indoor"`
}

// MerchItem описывает товар клубного магазина. Цена хранится в центах.
type MerchItem struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required,max=80"`
	Price int64  `json:"price" validate:"min=0"`
	Stock int    `json:"stock" validate:"min=0"`
}

// MerchItemDraft описывает новый товар. Незаданные цена и остаток берутся по умолчанию.
type MerchItemDraft struct {
	Name  string `json:"name"`
	Price *int64 `json:"price"`
	Stock *int   `json:"stock"`
}

// Club представляет клуб, который показывает микросайт.
type Club struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	City     string      `json:"city"`
	Courts   []Court     `json:"courts"`
	Merch    []MerchItem `json:"merch"`
	Settings Settings    `json:"settings"`
}

// Slot описывает отметку времени в сетке бронирования.
type Slot struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
}

// DayMetric содержит значения воронки за один смоделированный день.
type DayMetric struct {
	Date            time.Time    `json:"date"`
	Weekday         time.Weekday `json:"weekday"`
	Views           int          `json:"views"`
	Visitors        int          `json:"visitors"`
	Bookings        int          `json:"bookings"`
	PrepaidBookings int          `json:"prepaid_bookings"`
}

// HourBucket хранит количество бронирований, пришедшихся на час суток.
type HourBucket struct {
	Hour         int    `json:"hour"`
	Label        string `json:"label"`
	BookingCount int    `json:"bookings"`
}

// WeekdayBucket хранит количество бронирований за день недели.
type WeekdayBucket struct {
	Weekday      time.Weekday `json:"weekday"`
	Label        string       `json:"label"`
	BookingCount int          `json:"bookings"`
}

// TimeseriesPoint описывает точку графика динамики.
type TimeseriesPoint struct {
	Date            string `json:"date"`
	Views           int    `json:"views"`
	Bookings        int    `json:"bookings"`
	PrepaidBookings int    `json:"prepaid_bookings"`
}

// Totals содержит суммы показателей воронки за весь период.
type Totals struct {
	Views           int `json:"views"`
	Visitors        int `json:"visitors"`
	Bookings        int `json:"bookings"`
	PrepaidBookings int `json:"prepaid_bookings"`
}

// Report содержит результат одного запуска симуляции аналитики.
type Report struct {
	Reference         time.Time         `json:"reference"`
	Seed              int64             `json:"seed"`
	Days              int               `json:"days"`
	PrepaymentPercent int               `json:"prepayment_percent"`
	Daily             []DayMetric       `json:"daily"`
	HourCounts        []HourBucket      `json:"hour_counts"`
	DayCounts         []WeekdayBucket   `json:"day_counts"`
	Timeseries        []TimeseriesPoint `json:"timeseries"`
	Totals            Totals            `json:"totals"`
	ConversionRate    float64           `json:"conversion_rate"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// Snapshot описывает сохранённый отчёт аналитики.
type Snapshot struct {
	ID                string    `json:"id"`
	PrepaymentPercent int       `json:"prepayment_percent"`
	ReferenceDate     time.Time `json:"reference_date"`
	Report            *Report   `json:"report,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
