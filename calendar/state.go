// Package calendar рендерит месячную сетку календаря в HTML.
//
// Calendar хранит конфигурацию (месяц, подсветка, события, подписи дней недели,
// смещение начала недели, отключенные дни, CSS-классы, произвольные атрибуты),
// Render строит по ней разметку. Состояние никак не связано с вводом-выводом
// и не защищено от конкурентного доступа: мутации и рендер нужно сериализовать
// на стороне вызывающего.
package calendar

import (
	"time"

	"github.com/nvkalinin/html-calendar/dates"
	"golang.org/x/text/language"
)

// Role — именованный слот CSS-класса, который можно переопределить
// через SetCSSClasses.
type Role string

const (
	RoleCalendar    Role = "calendar"     // Корневой элемент таблицы.
	RoleLeadingDay  Role = "leading_day"  // Пустая ячейка до первого числа.
	RoleTrailingDay Role = "trailing_day" // Пустая ячейка после последнего числа.
	RoleHighlight   Role = "highlight"    // Подсвеченный день.
	RoleEvent       Role = "event"        // Одно событие дня.
	RoleEvents      Role = "events"       // Контейнер событий дня.
	RoleDisabled    Role = "disabled"     // Отключенный день недели.
)

var defaultClasses = map[Role]string{
	RoleCalendar:    "calendar",
	RoleLeadingDay:  "leading-day",
	RoleTrailingDay: "trailing-day",
	RoleHighlight:   "today",
	RoleEvent:       "event",
	RoleEvents:      "events",
	RoleDisabled:    "disabled",
}

type highlightMode int

const (
	hlToday highlightMode = iota // Подсвечивать сегодняшний день.
	hlNone                       // Без подсветки.
	hlDate                       // Подсвечивать указанную дату.
)

// Highlight описывает режим подсветки дня: отключена, "сегодня" или явная дата.
type Highlight struct {
	mode highlightMode
	date time.Time
}

func NoHighlight() Highlight {
	return Highlight{mode: hlNone}
}

func HighlightToday() Highlight {
	return Highlight{mode: hlToday}
}

// HighlightOn подсвечивает указанную дату. Время не отбрасывается:
// сравнение при рендере идет с точностью до календарного дня.
func HighlightOn(t time.Time) Highlight {
	return Highlight{mode: hlDate, date: t}
}

// WeekdayRef — ссылка на день недели: либо число (0=воскресенье..6=суббота,
// большие значения берутся по модулю 7), либо название ("mon", "Monday").
type WeekdayRef struct {
	num    int
	name   string
	byName bool
}

func WeekdayNum(n int) WeekdayRef {
	return WeekdayRef{num: n}
}

func WeekdayName(name string) WeekdayRef {
	return WeekdayRef{name: name, byName: true}
}

func (w WeekdayRef) resolve() (int, error) {
	if w.byName {
		wd, ok := dates.Weekday(w.name)
		if !ok {
			return 0, errConfig("unknown weekday name '%s'", w.name)
		}
		return int(wd), nil
	}

	if w.num < 0 {
		return 0, errConfig("weekday number must not be negative, got %d", w.num)
	}
	return w.num % 7, nil
}

// Calendar — состояние одной месячной сетки. Создается через New,
// настраивается сеттерами, затем рендерится (сколько угодно раз).
type Calendar struct {
	month     time.Time // Всегда первый день месяца.
	highlight Highlight

	// Канонический (невращенный) список подписей, Sunday..Saturday.
	// Вращение по weekOffset выполняется заново при каждом рендере.
	weekdays [7]string

	events      map[dayKey][]event
	nextEventID int

	weekOffset int // 0..6, колонка, с которой начинается неделя.
	excluded   map[time.Weekday]bool

	classes         map[Role]string
	attrs           map[string]string
	attrsActiveOnly bool
	tableID         string

	now func() time.Time
}

// New создает календарь на текущий месяц с подсветкой сегодняшнего дня,
// английскими подписями дней недели и классами по умолчанию.
func New() *Calendar {
	c := &Calendar{
		highlight: HighlightToday(),
		weekdays:  dates.Labels(language.English),
		events:    map[dayKey][]event{},
		excluded:  map[time.Weekday]bool{},
		classes:   make(map[Role]string, len(defaultClasses)),
		attrs:     map[string]string{},
		now:       time.Now,
	}
	for role, class := range defaultClasses {
		c.classes[role] = class
	}
	c.month = dates.MonthStart(c.now())
	return c
}

// SetMonth задает целевой месяц. Любая дата нормализуется к первому дню
// своего месяца; нулевое значение означает текущий месяц.
func (c *Calendar) SetMonth(t time.Time) {
	if t.IsZero() {
		t = c.now()
	}
	c.month = dates.MonthStart(t)
}

func (c *Calendar) SetHighlight(h Highlight) {
	c.highlight = h
}

// SetCSSClasses переопределяет классы для перечисленных ролей, остальные
// не трогает. Неизвестная роль — ошибка, и тогда не применяется ни одно
// из переданных значений.
func (c *Calendar) SetCSSClasses(classes map[Role]string) error {
	for role := range classes {
		if _, ok := defaultClasses[role]; !ok {
			return errConfig("unknown css class role '%s'", role)
		}
	}

	for role, class := range classes {
		c.classes[role] = class
	}
	return nil
}

// SetWeekdays задает подписи дней недели в порядке Sunday..Saturday.
// Пустой список возвращает подписи по умолчанию. Непустой список
// должен содержать ровно 7 элементов.
func (c *Calendar) SetWeekdays(labels []string) error {
	if len(labels) == 0 {
		c.weekdays = dates.Labels(language.English)
		return nil
	}
	if len(labels) != 7 {
		return errConfig("weekday labels: expected 7 entries, got %d", len(labels))
	}

	copy(c.weekdays[:], labels)
	return nil
}

// SetWeekOffset задает день недели для первой колонки сетки.
func (c *Calendar) SetWeekOffset(ref WeekdayRef) error {
	off, err := ref.resolve()
	if err != nil {
		return err
	}
	c.weekOffset = off
	return nil
}

// SetExcludedDays помечает дни недели как отключенные: такие ячейки
// рендерятся с классом disabled и считаются неактивными.
// При ошибке в любом из аргументов список не меняется.
func (c *Calendar) SetExcludedDays(refs ...WeekdayRef) error {
	resolved := make([]time.Weekday, 0, len(refs))
	for _, ref := range refs {
		d, err := ref.resolve()
		if err != nil {
			return err
		}
		resolved = append(resolved, time.Weekday(d))
	}

	for _, d := range resolved {
		c.excluded[d] = true
	}
	return nil
}

// SetCustomAttributes добавляет произвольные атрибуты к ячейкам дней.
// Переданные ключи перекрывают прежние, остальные сохраняются.
// При activeOnly=true атрибуты не ставятся на отключенные дни.
// В значении атрибута подстрока DateToken заменяется датой ячейки.
func (c *Calendar) SetCustomAttributes(attrs map[string]string, activeOnly bool) {
	for k, v := range attrs {
		c.attrs[k] = v
	}
	c.attrsActiveOnly = activeOnly
}

// SetTableID задает id корневого элемента. Значение очищается от разметки,
// пробелы заменяются дефисами.
func (c *Calendar) SetTableID(id string) {
	c.tableID = sanitizeToken(id)
}
