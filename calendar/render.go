package calendar

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nvkalinin/html-calendar/dates"
)

// DateToken — плейсхолдер в значениях произвольных атрибутов,
// заменяется датой ячейки (YYYY-MM-DD) перед экранированием.
const DateToken = ":simcal_date:"

// Render строит HTML-таблицу месяца по текущему состоянию календаря.
// Состояние при этом не меняется, повторные вызовы дают одинаковый результат.
// Render не валидирует конфигурацию: все проверки выполняют сеттеры.
func (c *Calendar) Render() string {
	labels := c.rotatedWeekdays()
	lead := leadingBlanks(int(c.month.Weekday()), c.weekOffset)
	days := dates.DaysInMonth(c.month.Year(), c.month.Month())

	var b strings.Builder

	b.WriteString("<table")
	if c.tableID != "" {
		fmt.Fprintf(&b, ` id="%s"`, c.tableID)
	}
	fmt.Fprintf(&b, ` class="%s">`, escapeAttr(c.classes[RoleCalendar]))

	b.WriteString("<thead><tr>")
	for _, label := range labels {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(label))
	}
	b.WriteString("</tr></thead>")

	b.WriteString("<tbody><tr>")

	cells := 0
	for i := 0; i < lead; i++ {
		c.writePadCell(&b, RoleLeadingDay)
		cells++
	}

	highlight, hasHighlight := c.highlightDate()

	for d := 1; d <= days; d++ {
		date := c.month.AddDate(0, 0, d-1)
		c.writeDayCell(&b, d, date, highlight, hasHighlight)
		cells++

		// Перенос строки после каждой седьмой ячейки, кроме самой последней:
		// хвост добивается пустыми ячейками ниже.
		if cells%7 == 0 && d != days {
			b.WriteString("</tr><tr>")
		}
	}

	for cells%7 != 0 {
		c.writePadCell(&b, RoleTrailingDay)
		cells++
	}

	b.WriteString("</tr></tbody></table>")
	return b.String()
}

// rotatedWeekdays каждый раз строит повернутый список заново из канонического:
// повторные рендеры с одним offset не накапливают вращение.
func (c *Calendar) rotatedWeekdays() [7]string {
	var out [7]string
	for i := 0; i < 7; i++ {
		out[i] = c.weekdays[(i+c.weekOffset)%7]
	}
	return out
}

// leadingBlanks считает число пустых ячеек перед первым числом месяца,
// чтобы оно попало в колонку своего дня недели: (base - offset) mod 7.
func leadingBlanks(base, offset int) int {
	return (base - offset + 7) % 7
}

func (c *Calendar) highlightDate() (time.Time, bool) {
	switch c.highlight.mode {
	case hlToday:
		return dates.DayStart(c.now()), true
	case hlDate:
		return c.highlight.date, true
	default:
		return time.Time{}, false
	}
}

func (c *Calendar) writePadCell(b *strings.Builder, role Role) {
	fmt.Fprintf(b, `<td class="%s">&nbsp;</td>`, escapeAttr(c.classes[role]))
}

func (c *Calendar) writeDayCell(b *strings.Builder, dayNum int, date time.Time, highlight time.Time, hasHighlight bool) {
	iso := dates.ISO(date)
	active := !c.excluded[date.Weekday()]

	var classes []string
	if hasHighlight && dates.SameDay(highlight, date) {
		classes = append(classes, c.classes[RoleHighlight])
	}
	if !active {
		classes = append(classes, c.classes[RoleDisabled])
	}

	b.WriteString("<td")
	if len(classes) > 0 {
		fmt.Fprintf(b, ` class="%s"`, escapeAttr(strings.Join(classes, " ")))
	}

	if len(c.attrs) > 0 && (active || !c.attrsActiveOnly) {
		for _, k := range sortedKeys(c.attrs) {
			val := strings.ReplaceAll(c.attrs[k], DateToken, iso)
			fmt.Fprintf(b, ` %s="%s"`, sanitizeToken(k), escapeAttr(val))
		}
	}

	fmt.Fprintf(b, ` data-cal-date="%s">`, iso)
	fmt.Fprintf(b, `<time datetime="%s">%d</time>`, iso, dayNum)

	if events := c.eventsOn(date.Year(), date.Month(), date.Day()); len(events) > 0 {
		fmt.Fprintf(b, `<div class="%s">`, escapeAttr(c.classes[RoleEvents]))
		for _, ev := range events {
			fmt.Fprintf(b, `<div class="%s">%s</div>`, escapeAttr(c.classes[RoleEvent]), ev.html)
		}
		b.WriteString("</div>")
	}

	b.WriteString("</td>")
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// sanitizeToken готовит строку для использования в качестве id или имени
// атрибута: убирает теги, заменяет пробелы дефисами, экранирует остальное.
func sanitizeToken(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	return escapeAttr(s)
}

func escapeAttr(s string) string {
	return html.EscapeString(s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
