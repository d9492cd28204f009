// Package rest — HTTP-интерфейс сервиса: JSON API заметок календаря,
// HTML-рендер месячной сетки и админские операции.
package rest

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/nvkalinin/html-calendar/calendar"
	"github.com/nvkalinin/html-calendar/dates"
	"github.com/nvkalinin/html-calendar/log"
	"github.com/nvkalinin/html-calendar/store"
)

type Store interface {
	FindDay(y int, mon time.Month, d int) (*store.Day, bool)
	FindMonth(y int, mon time.Month) (store.Days, bool)
	FindYear(y int) (store.Months, bool)
}

// Backuper реализуется хранилищем, умеющим отдавать снимок своей БД (bolt).
type Backuper interface {
	Backup(w io.Writer) error
}

type Updater interface {
	UpdateYear(y int) error
}

type Server struct {
	Store   Store
	Updater Updater
	Opts    Opts

	srv *http.Server
}

type Opts struct {
	Listen      string
	LogRequests bool
	AdminPasswd string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	RateLimiter bool
	ReqLimit    int
	LimitWindow time.Duration
}

func (s *Server) Run() error {
	s.srv = &http.Server{
		Addr:              s.Opts.Listen,
		Handler:           s.routes(),
		ReadTimeout:       s.Opts.ReadTimeout,
		ReadHeaderTimeout: s.Opts.ReadHeaderTimeout,
		WriteTimeout:      s.Opts.WriteTimeout,
		IdleTimeout:       s.Opts.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.Background()
		},
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	if s.Opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		if s.Opts.RateLimiter {
			r.Use(httprate.LimitByIP(s.Opts.ReqLimit, s.Opts.LimitWindow))
		}

		r.Get("/cal/{y}", s.yearCtrl)
		r.Get("/cal/{y}/{m}", s.monthCtrl)
		r.Get("/cal/{y}/{m}/{d}", s.dayCtrl)

		if s.Opts.AdminPasswd != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.BasicAuth("html-calendar", map[string]string{
					"admin": s.Opts.AdminPasswd,
				}))
				r.Post("/sync", s.syncCtrl)
				r.Get("/backup", s.backupCtrl)
			})
		}
	})

	// HTML-сетка месяца.
	r.Get("/cal/{y}/{m}", s.htmlMonthCtrl)

	return r
}

func (s *Server) yearCtrl(w http.ResponseWriter, r *http.Request) {
	y, err := yearParam(r)
	if err != nil {
		sendErrorJson(w, 400, "invalid year")
		return
	}

	year, found := s.Store.FindYear(y)
	if !found {
		sendErrorJson(w, 404, "year not found")
		return
	}

	sendJsonResponse(w, year)
}

func (s *Server) monthCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := yearParam(r)
	m, err2 := monthParam(r)
	if err := combineErrors(err1, err2); err != nil {
		sendErrorJson(w, 400, "invalid date")
		return
	}

	month, found := s.Store.FindMonth(y, m)
	if !found {
		sendErrorJson(w, 404, "month not found")
		return
	}

	sendJsonResponse(w, month)
}

func (s *Server) dayCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := yearParam(r)
	m, err2 := monthParam(r)
	d, err3 := dayParam(r)
	if err := combineErrors(err1, err2, err3); err != nil {
		sendErrorJson(w, 400, "invalid date")
		return
	}

	day, found := s.Store.FindDay(y, m, d)
	if !found {
		sendErrorJson(w, 404, "date not found")
		return
	}

	sendJsonResponse(w, day)
}

// htmlMonthCtrl рендерит месячную сетку. Параметры запроса:
//
//	offset    — день недели первой колонки: число 0..6 или название ("mon");
//	exclude   — отключенные дни недели, список через запятую;
//	highlight — "none", "today" или дата;
//	lang      — язык подписей дней недели (BCP-47);
//	id        — id корневого элемента таблицы;
//	link      — значение атрибута data-day-url для активных дней,
//	            подстрока :simcal_date: заменяется датой ячейки.
//
// Заметки месяца из хранилища добавляются в ячейки как события
// (текст экранируется).
func (s *Server) htmlMonthCtrl(w http.ResponseWriter, r *http.Request) {
	y, err1 := yearParam(r)
	m, err2 := monthParam(r)
	if err := combineErrors(err1, err2); err != nil {
		http.Error(w, "invalid date", 400)
		return
	}

	cal := calendar.New()
	cal.SetMonth(time.Date(y, m, 1, 0, 0, 0, 0, time.Local))

	if err := configureGrid(cal, r); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	if month, ok := s.Store.FindMonth(y, m); ok {
		addNotes(cal, y, m, month)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	if _, err := io.WriteString(w, cal.Render()); err != nil {
		log.Printf("[WARN] cannot write html response: %+v", err)
	}
}

func configureGrid(cal *calendar.Calendar, r *http.Request) error {
	q := r.URL.Query()

	if v := q.Get("offset"); v != "" {
		if err := cal.SetWeekOffset(weekdayRef(v)); err != nil {
			return fmt.Errorf("offset: %w", err)
		}
	}

	if v := q.Get("exclude"); v != "" {
		refs := make([]calendar.WeekdayRef, 0, 7)
		for _, part := range strings.Split(v, ",") {
			refs = append(refs, weekdayRef(part))
		}
		if err := cal.SetExcludedDays(refs...); err != nil {
			return fmt.Errorf("exclude: %w", err)
		}
	}

	switch v := q.Get("highlight"); v {
	case "", "today":
		cal.SetHighlight(calendar.HighlightToday())
	case "none":
		cal.SetHighlight(calendar.NoHighlight())
	default:
		d, err := dates.Parse(v)
		if err != nil {
			return fmt.Errorf("highlight: %w", err)
		}
		cal.SetHighlight(calendar.HighlightOn(d))
	}

	if v := q.Get("lang"); v != "" {
		labels := dates.LabelsFor(v)
		if err := cal.SetWeekdays(labels[:]); err != nil {
			return fmt.Errorf("lang: %w", err)
		}
	}

	if v := q.Get("id"); v != "" {
		cal.SetTableID(v)
	}

	if v := q.Get("link"); v != "" {
		cal.SetCustomAttributes(map[string]string{"data-day-url": v}, true)
	}

	return nil
}

func addNotes(cal *calendar.Calendar, y int, m time.Month, month store.Days) {
	for dayNum, day := range month {
		date := time.Date(y, m, dayNum, 0, 0, 0, 0, time.Local)
		for _, note := range day.Notes {
			// Заметки из хранилища — обычный текст, рендер их не экранирует.
			if err := cal.AddEvent(html.EscapeString(note), date, time.Time{}); err != nil {
				log.Printf("[WARN] cannot add note %d-%02d-%02d: %+v", y, m, dayNum, err)
			}
		}
	}
}

func (s *Server) syncCtrl(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendErrorJson(w, 400, "invalid form")
		return
	}

	years := r.PostForm["y"]
	if len(years) == 0 {
		sendErrorJson(w, 400, "no years given")
		return
	}

	res := make(map[int]string, len(years))
	for _, ystr := range years {
		y, err := strconv.Atoi(ystr)
		if err != nil || y <= 0 {
			sendErrorJson(w, 400, fmt.Sprintf("invalid year '%s'", ystr))
			return
		}

		if err := s.Updater.UpdateYear(y); err != nil {
			log.Printf("[WARN] rest: sync %d: %+v", y, err)
			res[y] = err.Error()
			continue
		}
		res[y] = "ok"
	}

	sendJsonResponse(w, res)
}

func (s *Server) backupCtrl(w http.ResponseWriter, r *http.Request) {
	b, ok := s.Store.(Backuper)
	if !ok {
		sendErrorJson(w, 501, "store does not support backups")
		return
	}

	fname := fmt.Sprintf("notes_%s.bolt.gz", time.Now().Format(dates.ISODate))
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fname))
	w.WriteHeader(200)

	gz := gzip.NewWriter(w)
	if err := b.Backup(gz); err != nil {
		log.Printf("[WARN] rest: backup failed: %+v", err)
		return
	}
	if err := gz.Close(); err != nil {
		log.Printf("[WARN] rest: cannot finish backup: %+v", err)
	}
}

// weekdayRef трактует параметр как номер дня недели, если это число,
// иначе — как название.
func weekdayRef(v string) calendar.WeekdayRef {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return calendar.WeekdayNum(n)
	}
	return calendar.WeekdayName(v)
}

func intParam(r *http.Request, param string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, param))
}

func yearParam(r *http.Request) (int, error) {
	y, err := intParam(r, "y")
	if err != nil {
		return 0, err
	}

	if y <= 0 {
		return 0, fmt.Errorf("invalid year")
	}
	return y, nil
}

func monthParam(r *http.Request) (time.Month, error) {
	m, err := intParam(r, "m")
	if err != nil {
		return 0, err
	}

	if m < int(time.January) || m > int(time.December) {
		return 0, fmt.Errorf("invalid month number")
	}
	return time.Month(m), nil
}

func dayParam(r *http.Request) (int, error) {
	d, err := intParam(r, "d")
	if err != nil {
		return 0, err
	}

	if d < 1 || d > 31 {
		return 0, fmt.Errorf("invalid day number")
	}
	return d, nil
}

func combineErrors(err ...error) error {
	nonNil := make([]error, 0, len(err))
	for _, e := range err {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}

	if len(nonNil) == 0 {
		return nil
	}
	return fmt.Errorf("%+v", nonNil)
}

func sendJsonResponse(w http.ResponseWriter, data interface{}) {
	respJson, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WARN] cannot marshal response data: %+v", err)
		sendErrorJson(w, 500, "cannot marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if _, err = w.Write(respJson); err != nil {
		log.Printf("[WARN] cannot write response data: %+v", err)
	}
}

func sendErrorJson(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	restErr := &struct {
		Msg string `json:"msg"`
	}{msg}

	errJson, err := json.Marshal(restErr)
	if err != nil {
		log.Printf("[WARN] cannot marshal rest error: %+v", err)
		return
	}

	if _, err = w.Write(errJson); err != nil {
		log.Printf("[WARN] cannot write rest error: %+v", err)
	}
}
