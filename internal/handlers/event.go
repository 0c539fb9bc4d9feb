package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/temporal"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventView is one row of the event list response. ReminderLabel is populated
// for upcoming rows and for today rows that are still live; Expired is the
// muted-rendering flag for the today and all views.
type eventView struct {
	models.Event
	ReminderLabel string `json:"reminder_label,omitempty"`
	Expired       bool   `json:"expired"`
}

// ListEvents returns a space's events for one view. The upcoming and past
// views push their time filter into the query; today and all fetch the space
// and partition in memory. The q parameter is a substring search over title
// and description and is applied before any time filter.
func ListEvents(c *gin.Context) {
	space, ok := requireSpace(c, c.Query("space_id"))
	if !ok {
		return
	}

	view, ok := temporal.ParseView(c.Query("view"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be one of upcoming, today, past, all"})
		return
	}
	query := c.Query("q")
	now := time.Now()

	db := database.GetDB()
	scope := db.Where("space_id = ?", space.ID)

	var events []models.Event
	var err error
	switch view {
	case temporal.ViewUpcoming:
		err = scope.Where("starts_at >= ?", now).Order("starts_at asc").Find(&events).Error
	case temporal.ViewPast:
		err = scope.Where("starts_at < ?", now).Order("starts_at desc").Find(&events).Error
	default:
		err = scope.Order("starts_at asc").Find(&events).Error
	}
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	rows := make([]temporal.EventRow, len(events))
	for i, e := range events {
		rows[i] = temporal.EventRow{
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			Title:       e.Title,
			Description: e.DescriptionValue(),
		}
	}
	order := temporal.Partition(rows, view, query, now)

	reminders, err := loadReminderMap(db, space.ID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	views := make([]eventView, 0, len(order))
	for _, i := range order {
		ev := eventView{Event: events[i]}
		expired := temporal.IsExpired(events[i].StartsAt, events[i].EndsAt, now)

		switch view {
		case temporal.ViewUpcoming:
			ev.ReminderLabel = temporal.ReminderLabel(events[i].StartsAt, reminders[events[i].ID], now)
		case temporal.ViewToday:
			ev.Expired = expired
			if !expired {
				ev.ReminderLabel = temporal.ReminderLabel(events[i].StartsAt, reminders[events[i].ID], now)
			}
		case temporal.ViewAll:
			ev.Expired = expired
		}
		views = append(views, ev)
	}

	c.JSON(http.StatusOK, gin.H{"events": views, "view": view})
}

// loadReminderMap returns a space's reminder lead times keyed by event id
func loadReminderMap(db *gorm.DB, spaceID string) (map[string]int, error) {
	var reminders []models.EventReminder
	if err := db.Where("space_id = ?", spaceID).Find(&reminders).Error; err != nil {
		return nil, err
	}
	m := make(map[string]int, len(reminders))
	for _, r := range reminders {
		m[r.EventID] = r.RemindMinutesBefore
	}
	return m, nil
}

// parseEventTimes validates the request's time strings. Responds 400 and
// reports ok=false on bad input.
func parseEventTimes(c *gin.Context, req *models.EventRequest) (startsAt time.Time, endsAt *time.Time, ok bool) {
	startsAt, parsed := temporal.ParseInstant(strings.TrimSpace(req.StartsAt))
	if !parsed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must be a valid date-time"})
		return time.Time{}, nil, false
	}

	if raw := strings.TrimSpace(req.EndsAt); raw != "" {
		end, parsed := temporal.ParseInstant(raw)
		if !parsed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be a valid date-time"})
			return time.Time{}, nil, false
		}
		endsAt = &end
	}
	return startsAt, endsAt, true
}

// CreateEvent adds an event to a space, optionally with a reminder lead time
func CreateEvent(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	space, ok := requireSpace(c, c.Query("space_id"))
	if !ok {
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	startsAt, endsAt, ok := parseEventTimes(c, &req)
	if !ok {
		return
	}

	event := models.Event{
		SpaceID:  space.ID,
		Title:    title,
		StartsAt: &startsAt,
		EndsAt:   endsAt,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		event.Description = &desc
	}

	db := database.GetDB()
	if err := db.Create(&event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	if req.ReminderMinutes != nil {
		if err := applyReminderMinutes(db, &event, *req.ReminderMinutes); err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to save reminder", err)
			return
		}
	}

	if err := LogActivity(profileID, "create_event", event.ID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusCreated, event)
}

// requireEvent loads an event and checks the caller owns its space. Writes
// the error response itself and reports ok=false when the caller should stop.
func requireEvent(c *gin.Context, eventID string) (*models.Event, bool) {
	db := database.GetDB()
	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return nil, false
	}

	if _, ok := requireSpace(c, event.SpaceID); !ok {
		return nil, false
	}
	return &event, true
}

// GetEvent returns one event with its reminder lead time, if any
func GetEvent(c *gin.Context) {
	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var reminder models.EventReminder
	minutes := 0
	if err := db.Where("event_id = ?", event.ID).First(&reminder).Error; err == nil {
		minutes = reminder.RemindMinutesBefore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "remind_minutes_before": minutes})
}

// UpdateEvent edits an event. A nil reminder_minutes leaves the reminder
// alone; zero removes it; a positive value upserts it.
func UpdateEvent(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	startsAt, endsAt, ok := parseEventTimes(c, &req)
	if !ok {
		return
	}

	db := database.GetDB()
	updates := map[string]interface{}{
		"title":       title,
		"description": nullableString(strings.TrimSpace(req.Description)),
		"starts_at":   startsAt,
		"ends_at":     endsAt,
	}
	if err := db.Model(event).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update event", err)
		return
	}

	if req.ReminderMinutes != nil {
		if err := applyReminderMinutes(db, event, *req.ReminderMinutes); err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to save reminder", err)
			return
		}
	}

	if err := db.Where("id = ?", event.ID).First(event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to reload event", err)
		return
	}

	if err := LogActivity(profileID, "update_event", event.ID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and its reminder row
func DeleteEvent(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	event, ok := requireEvent(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Where("event_id = ?", event.ID).Delete(&models.EventReminder{}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", err)
		return
	}
	if err := db.Delete(event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete event", err)
		return
	}

	if err := LogActivity(profileID, "delete_event", event.ID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// applyReminderMinutes reconciles an event's reminder row with a requested
// lead time: zero deletes, positive upserts on event_id.
func applyReminderMinutes(db *gorm.DB, event *models.Event, minutes int) error {
	if minutes <= 0 {
		return db.Where("event_id = ?", event.ID).Delete(&models.EventReminder{}).Error
	}

	reminder := models.EventReminder{
		EventID:             event.ID,
		SpaceID:             event.SpaceID,
		RemindMinutesBefore: minutes,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"remind_minutes_before"}),
	}).Create(&reminder).Error
}
