// Package random содержит детерминированный генератор псевдослучайных чисел для симуляций.
package random

const (
	// Multiplier задаёт множитель генератора Парка–Миллера.
	Multiplier int64 = 16807
	// Modulus задаёт модуль генератора (простое число 2^31-1).
	Modulus int64 = 2147483647
)

// Lehmer хранит неизменяемое состояние мультипликативного конгруэнтного генератора.
// Каждый вызов Next возвращает новое значение генератора, исходное не меняется,
// поэтому независимые симуляции никогда не делят состояние.
type Lehmer struct {
	state int64
}

// NewLehmer создаёт генератор, начальное состояние которого равно seed mod Modulus.
// Отрицательные seed сдвигаются в допустимый диапазон, нулевое состояние заменяется на 1.
func NewLehmer(seed int64) Lehmer {
	s := seed % Modulus
	if s < 0 {
		s += Modulus
	}
	if s == 0 {
		s = 1
	}
	return Lehmer{state: s}
}

// State возвращает текущее внутреннее состояние генератора.
func (g Lehmer) State() int64 {
	return g.state
}

// Next возвращает следующее значение из диапазона [0, 1) и генератор, продвинутый на один шаг.
func (g Lehmer) Next() (float64, Lehmer) {
	next := (g.state * Multiplier) % Modulus
	return float64(next) / float64(Modulus), Lehmer{state: next}
}
