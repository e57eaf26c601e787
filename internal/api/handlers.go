package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/countdown-api/internal/calendar"
	"github.com/zapponejosh/countdown-api/internal/config"
	"github.com/zapponejosh/countdown-api/internal/countdown"
	"github.com/zapponejosh/countdown-api/internal/database"
	"github.com/zapponejosh/countdown-api/internal/ics"
	"github.com/zapponejosh/countdown-api/internal/tracker"
)

const (
	defaultFeedYears = 2
	maxFeedYears     = 20
	maxRequestBody   = 64 << 10
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	catalog   *calendar.Catalog
	formatter countdown.Formatter
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandlers creates a new Handlers instance. An unsupported LOCALE falls
// back to English.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	formatter, err := countdown.ParseLocale(cfg.Locale)
	if err != nil {
		logger.Warn("unsupported locale, using English",
			slog.String("locale", cfg.Locale),
			slog.Any("error", err))
		formatter, _ = countdown.ParseLocale("en")
	}
	return &Handlers{
		db:        db,
		catalog:   calendar.DefaultCatalog(),
		formatter: formatter,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source used to determine the current day.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// today is the current calendar day in the configured time zone.
func (h *Handlers) today() calendar.Date {
	return calendar.FromTime(h.now().In(h.cfg.Location()))
}

// dateParam reads an optional YYYY-MM-DD query parameter, defaulting to today.
func (h *Handlers) dateParam(r *http.Request, name string) (calendar.Date, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return h.today(), nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid %s %q: use YYYY-MM-DD", name, s)
	}
	return d, nil
}

// formatterFor honors an optional ?lang= override.
func (h *Handlers) formatterFor(r *http.Request) (countdown.Formatter, error) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		return h.formatter, nil
	}
	f, err := countdown.ParseLocale(lang)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	stats, err := h.db.GetEventStats(ctx)
	if err != nil {
		h.logger.Warn("health check stats failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"status": "healthy",
		"today":  h.today(),
		"stats":  stats,
	})
}

// =============================================================================
// Rules
// =============================================================================

type ruleView struct {
	calendar.Entry
	Description string         `json:"description"`
	Next        *calendar.Date `json:"next,omitempty"`
	Last        *calendar.Date `json:"last,omitempty"`
	DaysUntil   *int           `json:"days_until,omitempty"`
}

// ListRules handles GET /api/v1/rules?date=YYYY-MM-DD
func (h *Handlers) ListRules(w http.ResponseWriter, r *http.Request) {
	today, err := h.dateParam(r, "date")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	entries := h.catalog.Entries()
	views := make([]ruleView, 0, len(entries))
	for _, e := range entries {
		view := ruleView{Entry: e, Description: e.Describe()}
		occ, err := calendar.Occurrences(e.Rule, today)
		if err != nil {
			h.logger.Warn("resolve catalog rule",
				slog.String("rule_id", e.ID),
				slog.Any("error", err))
		} else {
			days := calendar.DayDifference(today, occ.Next)
			view.Next, view.Last, view.DaysUntil = &occ.Next, occ.Last, &days
		}
		views = append(views, view)
	}

	WriteSuccess(w, map[string]interface{}{
		"today": today,
		"rules": views,
	})
}

// GetRule handles GET /api/v1/rules/{id}?date=YYYY-MM-DD&lang=de
func (h *Handlers) GetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.catalog.Lookup(id)
	if err != nil {
		WriteNotFound(w, fmt.Sprintf("Unknown rule: %s", id))
		return
	}

	today, err := h.dateParam(r, "date")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	f, err := h.formatterFor(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	snap, err := tracker.Evaluate(tracker.RuleRecurring{Entry: entry}, today, f)
	if err != nil {
		h.logger.Error("evaluate rule",
			slog.String("rule_id", id),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to evaluate rule")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"rule":     ruleView{Entry: entry, Description: entry.Describe()},
		"snapshot": snap,
	})
}

// GetEaster handles GET /api/v1/easter/{year}
func (h *Handlers) GetEaster(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s. Use 1-9999", yearStr))
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"year":   year,
		"easter": calendar.CalculateEaster(year),
		"feasts": calendar.MovableFeasts(year),
	})
}

// =============================================================================
// Daylight saving time
// =============================================================================

type dstStatus struct {
	Region         calendar.Region `json:"region"`
	Today          calendar.Date   `json:"today"`
	Active         bool            `json:"active"`
	NextChange     calendar.Date   `json:"next_change"`
	NextSeason     calendar.Season `json:"next_season"`
	DaysUntilNext  int             `json:"days_until_next"`
	LastChange     calendar.Date   `json:"last_change"`
	LastSeason     calendar.Season `json:"last_season"`
	DaysSinceLast  int             `json:"days_since_last"`
	SummerThisYear calendar.Date   `json:"summer_this_year"`
	WinterThisYear calendar.Date   `json:"winter_this_year"`
}

func dstStatusFor(region calendar.Region, today calendar.Date) (*dstStatus, error) {
	next, nextSeason, err := region.NextChange(today)
	if err != nil {
		return nil, err
	}
	last, lastSeason, err := region.LastChange(today)
	if err != nil {
		return nil, err
	}
	summer, err := calendar.Resolve(region.Summer, today.Year())
	if err != nil {
		return nil, err
	}
	winter, err := calendar.Resolve(region.Winter, today.Year())
	if err != nil {
		return nil, err
	}
	return &dstStatus{
		Region:         region,
		Today:          today,
		Active:         lastSeason == calendar.Summer,
		NextChange:     next,
		NextSeason:     nextSeason,
		DaysUntilNext:  calendar.DayDifference(today, next),
		LastChange:     last,
		LastSeason:     lastSeason,
		DaysSinceLast:  calendar.DayDifference(last, today),
		SummerThisYear: summer,
		WinterThisYear: winter,
	}, nil
}

// GetDST handles GET /api/v1/dst/{region}?date=YYYY-MM-DD
func (h *Handlers) GetDST(w http.ResponseWriter, r *http.Request) {
	region, err := calendar.LookupRegion(chi.URLParam(r, "region"))
	if err != nil {
		WriteNotFound(w, err.Error())
		return
	}
	h.writeDST(w, r, region)
}

// GetDSTForTimezone handles GET /api/v1/dst?tz=Europe/Berlin. Without tz it
// lists the known regions.
func (h *Handlers) GetDSTForTimezone(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		WriteSuccess(w, calendar.Regions())
		return
	}
	region, err := calendar.RegionForTimezone(tz)
	if err != nil {
		WriteNotFound(w, err.Error())
		return
	}
	h.writeDST(w, r, region)
}

func (h *Handlers) writeDST(w http.ResponseWriter, r *http.Request, region calendar.Region) {
	today, err := h.dateParam(r, "date")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	status, err := dstStatusFor(region, today)
	if err != nil {
		h.logger.Error("evaluate dst region",
			slog.String("region", region.ID),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to evaluate DST region")
		return
	}
	WriteSuccess(w, status)
}

// GetCountdown handles GET /api/v1/countdown?to=YYYY-MM-DD&from=YYYY-MM-DD
func (h *Handlers) GetCountdown(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("to") == "" {
		WriteBadRequest(w, "to parameter is required")
		return
	}
	to, err := h.dateParam(r, "to")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	from, err := h.dateParam(r, "from")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	f, err := h.formatterFor(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	b := countdown.Between(from, to)
	WriteSuccess(w, map[string]interface{}{
		"from":      from,
		"to":        to,
		"days":      calendar.DayDifference(from, to),
		"countdown": b,
		"text":      f.Format(b),
	})
}

// =============================================================================
// Tracked events
// =============================================================================

// ListEvents handles GET /api/v1/events
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.db.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// CreateEvent handles POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var def tracker.Definition
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	if _, err := def.Build(h.catalog); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	ev, err := h.db.CreateEvent(r.Context(), def)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			WriteConflict(w, fmt.Sprintf("An event named %q already exists", def.Name))
			return
		}
		h.logger.Error("failed to create event", slog.Any("error", err))
		WriteInternalError(w, "Failed to create event")
		return
	}

	h.logger.Info("event created",
		slog.String("id", ev.ID),
		slog.String("name", ev.Name),
		slog.String("kind", string(ev.Kind)))

	WriteCreated(w, ev)
}

// GetEvent handles GET /api/v1/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, ev)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.db.DeleteEvent(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return
		}
		h.logger.Error("failed to delete event",
			slog.String("id", id),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to delete event")
		return
	}

	WriteSuccess(w, map[string]string{
		"message": "Event deleted",
	})
}

// GetEventStatus handles GET /api/v1/events/{id}/status?date=YYYY-MM-DD&lang=de
//
// The refresh job's cached snapshot is served when one exists for the
// requested day and no language override is given.
func (h *Handlers) GetEventStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stored, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	day, err := h.dateParam(r, "date")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if r.URL.Query().Get("lang") == "" {
		cached, err := h.db.GetSnapshot(ctx, stored.ID, day)
		switch {
		case err == nil:
			WriteSuccess(w, statusView{Event: stored, Snapshot: cached.Snapshot, Cached: true})
			return
		case !database.IsNotFound(err):
			h.logger.Warn("snapshot cache read failed",
				slog.String("id", stored.ID),
				slog.Any("error", err))
		}
	}

	f, err := h.formatterFor(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	ev, err := stored.Definition.Build(h.catalog)
	if err != nil {
		h.logger.Error("stored event no longer builds",
			slog.String("id", stored.ID),
			slog.Any("error", err))
		WriteInternalError(w, "Stored event is invalid")
		return
	}

	snap, err := tracker.Evaluate(ev, day, f)
	if err != nil {
		h.logger.Error("evaluate event",
			slog.String("id", stored.ID),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to evaluate event")
		return
	}

	WriteSuccess(w, statusView{Event: stored, Snapshot: snap})
}

type statusView struct {
	Event    *database.TrackedEvent `json:"event"`
	Snapshot tracker.Snapshot       `json:"snapshot"`
	Cached   bool                   `json:"cached"`
}

func (h *Handlers) loadEvent(w http.ResponseWriter, r *http.Request) (*database.TrackedEvent, bool) {
	id := chi.URLParam(r, "id")

	ev, err := h.db.GetEvent(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Event not found")
			return nil, false
		}
		h.logger.Error("failed to get event",
			slog.String("id", id),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve event")
		return nil, false
	}
	return ev, true
}

// GetCalendarFeed handles GET /api/v1/calendar.ics?years=N
func (h *Handlers) GetCalendarFeed(w http.ResponseWriter, r *http.Request) {
	years := defaultFeedYears
	if s := r.URL.Query().Get("years"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxFeedYears {
			WriteBadRequest(w, fmt.Sprintf("years must be between 1 and %d", maxFeedYears))
			return
		}
		years = n
	}

	events, err := h.db.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve events")
		return
	}

	items := make([]ics.Item, 0, len(events))
	for _, stored := range events {
		ev, err := stored.Definition.Build(h.catalog)
		if err != nil {
			h.logger.Warn("skipping invalid stored event in feed",
				slog.String("id", stored.ID),
				slog.Any("error", err))
			continue
		}
		items = append(items, ics.Item{ID: stored.ID, Name: stored.Name, Event: ev})
	}

	now := h.now()
	body, err := ics.Build(items, ics.Options{
		From:  calendar.FromTime(now.In(h.cfg.Location())),
		Years: years,
		Stamp: now.UTC(),
		Name:  "Countdowns",
	})
	if err != nil {
		h.logger.Error("failed to build calendar feed", slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="countdowns.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		h.logger.Warn("write calendar feed", slog.Any("error", err))
	}
}
