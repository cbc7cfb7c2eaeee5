package random

// Draw именует одно обращение к генератору в протоколе симуляции.
type Draw string

// Именованные выборки в том порядке, в котором их делает симуляция.
const (
	DrawViewsJitter       Draw = "views-jitter"
	DrawVisitorRate       Draw = "visitor-rate"
	DrawBookingRate       Draw = "booking-rate"
	DrawPrepaidJitter     Draw = "prepaid-jitter"
	DrawHourPick          Draw = "hour-pick"
	DrawHourOverrideCheck Draw = "hour-override-check"
	DrawHourOverride      Draw = "hour-override"
)

// Observer получает каждую выборку: её имя, порядковый номер и значение.
type Observer func(seq int, draw Draw, value float64)

// Stream последовательно потребляет значения генератора, помечая каждое именем выборки.
// Stream не предназначен для одновременного использования из нескольких горутин.
type Stream struct {
	gen      Lehmer
	seq      int
	observer Observer
}

// NewStream создаёт поток выборок из генератора с указанным seed.
func NewStream(seed int64, observer Observer) *Stream {
	return &Stream{
		gen:      NewLehmer(seed),
		observer: observer,
	}
}

// Next берёт очередное значение для выборки draw.
func (s *Stream) Next(draw Draw) float64 {
	var v float64
	v, s.gen = s.gen.Next()
	if s.observer != nil {
		s.observer(s.seq, draw, v)
	}
	s.seq++
	return v
}

// Consumed возвращает количество уже сделанных выборок.
func (s *Stream) Consumed() int {
	return s.seq
}
