package dates

import (
	"golang.org/x/text/language"
)

// Подписи дней недели в порядке Sunday..Saturday (как в time.Weekday).
var weekdayLabels = map[language.Tag][7]string{
	language.English: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	language.Russian: {"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"},
}

var labelMatcher = language.NewMatcher([]language.Tag{
	language.English, // Первый тег — язык по умолчанию.
	language.Russian,
})

// Labels возвращает названия дней недели (Sunday..Saturday) для указанного языка.
// Неизвестные языки сводятся к ближайшему поддерживаемому, по умолчанию — английский.
func Labels(tag language.Tag) [7]string {
	_, idx, _ := labelMatcher.Match(tag)
	switch idx {
	case 1:
		return weekdayLabels[language.Russian]
	default:
		return weekdayLabels[language.English]
	}
}

// LabelsFor — как Labels, но принимает BCP-47 строку ("ru", "en-US", ...).
// Нераспознанная строка дает язык по умолчанию.
func LabelsFor(lang string) [7]string {
	tag, err := language.Parse(lang)
	if err != nil {
		return weekdayLabels[language.English]
	}
	return Labels(tag)
}
