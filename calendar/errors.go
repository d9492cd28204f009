package calendar

import "fmt"

// ConfigError возвращается сеттерами Calendar при некорректной конфигурации:
// неизвестный ключ CSS-класса, неверная длина списка дней недели, отрицательное
// смещение, нераспознанное название дня недели, конец события раньше начала.
// Сеттер, вернувший ошибку, не меняет состояние календаря.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func errConfig(format string, a ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, a...)}
}
