// Package analytics моделирует синтетическую аналитику микросайта клуба:
// воронку просмотров, посетителей, бронирований и предоплат за последние дни,
// распределение бронирований по часам и дням недели и итоговые показатели.
//
// Все выборки берутся из детерминированного генератора, поэтому при одинаковых
// входных данных результат совпадает побитово.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
	"github.com/mmeshcher/clubsite-analytics/internal/random"
)

var (
	// ErrInvalidConfig возвращается при некорректных параметрах симуляции.
	ErrInvalidConfig = errors.New("invalid club configuration")
	// ErrInvalidReference возвращается, если не задана опорная дата.
	ErrInvalidReference = errors.New("invalid reference date")
)

const (
	// DefaultSeed задаёт seed, с которым демо всегда показывает одни и те же данные.
	DefaultSeed int64 = 2025
	// DefaultDays задаёт длину моделируемого периода.
	DefaultDays = 30
	// MaxDays ограничивает длину периода.
	MaxDays = 366

	// DateLayout задаёт формат подписи дня во временном ряду.
	DateLayout = "2006-01-02"

	baseViews = 200.0
)

// Сезонность по дням недели, индекс равен time.Weekday (воскресенье = 0).
var weekdayBase = [7]float64{0.8, 0.9, 1.0, 1.0, 1.2, 1.4, 1.6}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Options задаёт параметры запуска симуляции.
type Options struct {
	// Seed инициализирует генератор.
	Seed int64
	// Days задаёт число моделируемых дней; 0 означает DefaultDays.
	Days int
	// Today задаёт опорную дату, последний день периода.
	Today time.Time
	// Observer, если задан, получает каждую выборку генератора.
	Observer random.Observer
}

// DefaultOptions возвращает параметры демо: seed 2025 и 30 дней до today включительно.
func DefaultOptions(today time.Time) Options {
	return Options{
		Seed:  DefaultSeed,
		Days:  DefaultDays,
		Today: today,
	}
}

// Simulate строит отчёт аналитики для клуба. Функция чистая: каждый вызов
// создаёт собственный генератор и может выполняться параллельно с другими.
func Simulate(cfg model.ClubConfig, opts Options) (*model.Report, error) {
	if cfg.PrepaymentPercent < 0 || cfg.PrepaymentPercent > 100 {
		return nil, fmt.Errorf("%w: prepayment percent %d out of range [0, 100]", ErrInvalidConfig, cfg.PrepaymentPercent)
	}

	days := opts.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 0 || days > MaxDays {
		return nil, fmt.Errorf("%w: days %d out of range [1, %d]", ErrInvalidConfig, days, MaxDays)
	}

	if opts.Today.IsZero() {
		return nil, ErrInvalidReference
	}
	today := startOfDay(opts.Today)

	stream := random.NewStream(opts.Seed, opts.Observer)

	daily := simulateDays(stream, cfg, today, days)
	hours := distributeHours(stream, daily)
	weekdays := bucketWeekdays(daily)
	totals, rate := summarize(daily)

	return &model.Report{
		Reference:         today,
		Seed:              opts.Seed,
		Days:              days,
		PrepaymentPercent: cfg.PrepaymentPercent,
		Daily:             daily,
		HourCounts:        hours,
		DayCounts:         weekdays,
		Timeseries:        timeseries(daily),
		Totals:            totals,
		ConversionRate:    rate,
	}, nil
}

// simulateDays моделирует воронку по дням от самого старого к today.
// На каждый день приходится ровно четыре выборки в фиксированном порядке.
func simulateDays(stream *random.Stream, cfg model.ClubConfig, today time.Time, days int) []model.DayMetric {
	share := float64(cfg.PrepaymentPercent) / 100

	daily := make([]model.DayMetric, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - 1 - i))
		weekday := date.Weekday()

		views := roundHalfUp(float64(baseViews * weekdayBase[weekday] * jitter(0.8, 0.4, stream.Next(random.DrawViewsJitter))))
		visitors := roundHalfUp(float64(float64(views) * jitter(0.35, 0.15, stream.Next(random.DrawVisitorRate))))
		bookings := roundHalfUp(float64(float64(visitors) * jitter(0.18, 0.06, stream.Next(random.DrawBookingRate))))
		// При доле предоплаты около 100% разброс может дать prepaid > bookings.
		prepaid := min(roundHalfUp(float64(float64(bookings)*share*jitter(0.9, 0.2, stream.Next(random.DrawPrepaidJitter)))), bookings)

		daily = append(daily, model.DayMetric{
			Date:            date,
			Weekday:         weekday,
			Views:           views,
			Visitors:        visitors,
			Bookings:        bookings,
			PrepaidBookings: prepaid,
		})
	}

	return daily
}

// distributeHours назначает каждому бронированию час: сначала дневной диапазон 8–19,
// затем с вероятностью 1/2 вечерний диапазон 18–21.
func distributeHours(stream *random.Stream, daily []model.DayMetric) []model.HourBucket {
	buckets := make([]model.HourBucket, 24)
	for h := range buckets {
		buckets[h] = model.HourBucket{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00", h),
		}
	}

	for _, d := range daily {
		for i := 0; i < d.Bookings; i++ {
			h := int(math.Floor(8 + float64(stream.Next(random.DrawHourPick)*12)))
			if stream.Next(random.DrawHourOverrideCheck) > 0.5 {
				h = int(math.Floor(18 + float64(stream.Next(random.DrawHourOverride)*4)))
			}
			buckets[h].BookingCount++
		}
	}

	return buckets
}

func bucketWeekdays(daily []model.DayMetric) []model.WeekdayBucket {
	buckets := make([]model.WeekdayBucket, 7)
	for wd := range buckets {
		buckets[wd] = model.WeekdayBucket{
			Weekday: time.Weekday(wd),
			Label:   weekdayLabels[wd],
		}
	}

	for _, d := range daily {
		buckets[d.Weekday].BookingCount += d.Bookings
	}

	return buckets
}

func timeseries(daily []model.DayMetric) []model.TimeseriesPoint {
	points := make([]model.TimeseriesPoint, 0, len(daily))
	for _, d := range daily {
		points = append(points, model.TimeseriesPoint{
			Date:            d.Date.Format(DateLayout),
			Views:           d.Views,
			Bookings:        d.Bookings,
			PrepaidBookings: d.PrepaidBookings,
		})
	}
	return points
}

func summarize(daily []model.DayMetric) (model.Totals, float64) {
	var t model.Totals
	for _, d := range daily {
		t.Views += d.Views
		t.Visitors += d.Visitors
		t.Bookings += d.Bookings
		t.PrepaidBookings += d.PrepaidBookings
	}

	return t, ConversionRate(t)
}

// ConversionRate возвращает долю бронирований среди посетителей; 0, если посетителей нет.
func ConversionRate(t model.Totals) float64 {
	return float64(t.Bookings) / float64(max(t.Visitors, 1))
}

// jitter возвращает lo + r*span. Явное приведение запрещает FMA:
// результат должен совпадать побитово на всех архитектурах.
func jitter(lo, span, r float64) float64 {
	return lo + float64(r*span)
}

// roundHalfUp округляет к ближайшему целому, половины вверх.
// Произведения передаются уже округлёнными до float64, чтобы x+0.5 не слилось в FMA.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
