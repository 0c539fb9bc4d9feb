package handlers

import (
	"errors"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/temporal"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dashboardBirthdays = 6
	dashboardEvents    = 3
)

// Dashboard returns the home summary: the next birthdays with countdown
// labels, today's events, and the next upcoming events with reminder labels.
// A now query parameter overrides the clock, which the UI uses for previews.
func Dashboard(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	db := database.GetDB()

	now := time.Now()
	if raw := c.Query("now"); raw != "" {
		parsed, ok := temporal.ParseInstant(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "now must be a valid date-time"})
			return
		}
		now = parsed
	}

	birthdays, schemaWarning, err := upcomingBirthdays(db, profileID, now, dashboardBirthdays)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch birthdays", err)
		return
	}

	space, err := currentSpace(db, profileID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to resolve current space", err)
		return
	}

	response := gin.H{"birthdays": birthdays}
	if schemaWarning {
		response["schema_warning"] = schemaWarningMessage
	}

	if space == nil {
		response["today_events"] = []eventView{}
		response["upcoming_events"] = []eventView{}
		c.JSON(http.StatusOK, response)
		return
	}
	response["space"] = gin.H{"id": space.ID, "name": space.Name}

	reminders, err := loadReminderMap(db, space.ID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	todayEvents, err := todaysEvents(db, space.ID, reminders, now)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch today's events", err)
		return
	}
	response["today_events"] = todayEvents

	upcoming, err := upcomingEvents(db, space.ID, reminders, now)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch upcoming events", err)
		return
	}
	response["upcoming_events"] = upcoming

	c.JSON(http.StatusOK, response)
}

// currentSpace resolves the caller's preferred space, falling back to the
// oldest owned space when no preference is set or the preferred row is gone.
// Returns nil when the caller has no spaces at all.
func currentSpace(db *gorm.DB, profileID string) (*models.Space, error) {
	var profile models.Profile
	if err := db.Where("id = ?", profileID).First(&profile).Error; err != nil {
		return nil, err
	}

	if profile.CurrentSpaceID != "" {
		var space models.Space
		err := db.Where("id = ? AND owner_id = ?", profile.CurrentSpaceID, profileID).First(&space).Error
		if err == nil {
			return &space, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Warning: preferred space %s for %s is gone, falling back", profile.CurrentSpaceID, profileID)
	}

	var space models.Space
	err := db.Where("owner_id = ?", profileID).Order("created_at asc").First(&space).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// upcomingBirthdays returns the next few birthday records by occurrence,
// with countdown labels, using the reduced-column fallback on schema mismatch.
func upcomingBirthdays(db *gorm.DB, profileID string, now time.Time, limit int) ([]personView, bool, error) {
	var people []models.Person
	schemaWarning := false

	err := db.Where("user_id = ?", profileID).Find(&people).Error
	if err != nil && isPeopleSchemaMismatch(err) {
		log.Printf("Warning: birthdays schema mismatch, retrying with reduced columns: %v", err)
		schemaWarning = true
		err = db.Select(reducedPersonColumns).
			Where("user_id = ?", profileID).
			Find(&people).Error
	}
	if err != nil {
		return nil, false, err
	}

	keys := make([]int64, len(people))
	for i := range people {
		keys[i] = temporal.NextOccurrenceKey(people[i].BirthdateValue(), now)
	}
	order := make([]int, len(people))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	views := make([]personView, 0, len(order))
	for _, i := range order {
		views = append(views, personView{
			Person:    people[i],
			Countdown: temporal.CountdownLabel(people[i].BirthdateValue(), now),
		})
	}
	return views, schemaWarning, nil
}

// todaysEvents returns up to a few events overlapping today, expired-flagged,
// with reminder labels on the still-live ones
func todaysEvents(db *gorm.DB, spaceID string, reminders map[string]int, now time.Time) ([]eventView, error) {
	var events []models.Event
	if err := db.Where("space_id = ?", spaceID).Order("starts_at asc").Find(&events).Error; err != nil {
		return nil, err
	}

	views := make([]eventView, 0, dashboardEvents)
	for _, e := range events {
		if !temporal.InTodayWindow(e.StartsAt, e.EndsAt, now) {
			continue
		}
		ev := eventView{Event: e, Expired: temporal.IsExpired(e.StartsAt, e.EndsAt, now)}
		if !ev.Expired {
			ev.ReminderLabel = temporal.ReminderLabel(e.StartsAt, reminders[e.ID], now)
		}
		views = append(views, ev)
		if len(views) == dashboardEvents {
			break
		}
	}
	return views, nil
}

// upcomingEvents returns the next few events with reminder labels
func upcomingEvents(db *gorm.DB, spaceID string, reminders map[string]int, now time.Time) ([]eventView, error) {
	var events []models.Event
	if err := db.Where("space_id = ? AND starts_at >= ?", spaceID, now).
		Order("starts_at asc").
		Limit(dashboardEvents).
		Find(&events).Error; err != nil {
		return nil, err
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{
			Event:         e,
			ReminderLabel: temporal.ReminderLabel(e.StartsAt, reminders[e.ID], now),
		})
	}
	return views, nil
}
