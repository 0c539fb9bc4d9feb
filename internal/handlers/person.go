package handlers

import (
	"errors"
	"fmt"
	"kyndra/internal/auth"
	"kyndra/internal/database"
	"kyndra/internal/models"
	"kyndra/internal/services"
	"kyndra/internal/temporal"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Column set that predates the contact fields. Reads and writes fall back to
// it when the store reports the newer columns missing.
var reducedPersonColumns = []string{"id", "user_id", "name", "birthdate", "notes", "created_at"}

const schemaWarningMessage = "Some birthday fields (email, relationship, linked profile) are unavailable until the database schema is updated"

// isPeopleSchemaMismatch detects errors caused by the birthdays table missing
// the contact columns. Postgres reports these structurally as SQLSTATE 42703
// (undefined_column); a message-text check remains as a fallback for stores
// that only surface plain query errors.
func isPeopleSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UndefinedColumn && mentionsContactColumn(pgErr.Message)
	}

	lower := strings.ToLower(err.Error())
	missingColumn := strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "no such column") ||
		strings.Contains(lower, "unknown column")
	return missingColumn && mentionsContactColumn(lower)
}

func mentionsContactColumn(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "email") ||
		strings.Contains(lower, "relationship") ||
		strings.Contains(lower, "linked_profile_id")
}

// escapeLike escapes LIKE wildcards so a stored address is matched literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// findProfileIDByEmail resolves a contact email to a profile id, or "" when no
// profile matches. The LIKE pass keeps the lookup index-friendly across
// case-variant rows; the exact comparison afterwards guards against wildcard
// collisions.
func findProfileIDByEmail(db *gorm.DB, email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}

	var profiles []models.Profile
	if err := db.Where("lower(email) LIKE ?", escapeLike(normalized)).
		Limit(5).
		Find(&profiles).Error; err != nil {
		log.Printf("Warning: profile lookup by email failed: %v", err)
		return ""
	}

	for _, p := range profiles {
		if strings.ToLower(p.Email) == normalized {
			return p.ID
		}
	}
	return ""
}

// personView is one row of the people list response
type personView struct {
	models.Person
	Countdown string `json:"countdown"`
}

// ListPeople returns the caller's birthday records sorted by next occurrence,
// soonest first, with countdown labels attached. Records without a usable
// birthdate sort last and carry no label.
func ListPeople(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	db := database.GetDB()

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
		handleError(c, http.StatusInternalServerError, "Failed to fetch birthdays", err)
		return
	}

	now := time.Now()
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

	views := make([]personView, 0, len(people))
	for _, i := range order {
		views = append(views, personView{
			Person:    people[i],
			Countdown: temporal.CountdownLabel(people[i].BirthdateValue(), now),
		})
	}

	if schemaWarning {
		c.JSON(http.StatusOK, gin.H{"people": views, "schema_warning": schemaWarningMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": views})
}

// CreatePerson adds a birthday record for the caller. When an email is given
// the matching profile, if any, is linked immediately.
func CreatePerson(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)

	var req models.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	birthdate := strings.TrimSpace(req.Birthdate)
	if birthdate != "" {
		if _, ok := temporal.ParseDate(birthdate); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Birthdate must be a valid date (YYYY-MM-DD)"})
			return
		}
	}

	db := database.GetDB()
	person := models.Person{
		UserID: profileID,
		Name:   name,
	}
	if birthdate != "" {
		person.Birthdate = &birthdate
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		person.Notes = &notes
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		person.Email = &email
		if linked := findProfileIDByEmail(db, email); linked != "" {
			person.LinkedProfileID = &linked
		}
	}
	if rel := strings.TrimSpace(req.Relationship); rel != "" {
		person.Relationship = &rel
	}

	schemaWarning := false
	err := db.Create(&person).Error
	if err != nil && isPeopleSchemaMismatch(err) {
		log.Printf("Warning: birthdays schema mismatch on insert, retrying with reduced columns: %v", err)
		schemaWarning = true
		person.Email = nil
		person.Relationship = nil
		person.LinkedProfileID = nil
		err = db.Select(reducedPersonColumns).Create(&person).Error
	}
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create birthday", err)
		return
	}

	if err := LogActivity(profileID, "create_person", person.ID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	if schemaWarning {
		c.JSON(http.StatusCreated, gin.H{"person": person, "schema_warning": schemaWarningMessage})
		return
	}
	c.JSON(http.StatusCreated, person)
}

// UpdatePerson edits one of the caller's birthday records
func UpdatePerson(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	personID := c.Param("id")

	var req models.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid input: %s", err.Error())})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	birthdate := strings.TrimSpace(req.Birthdate)
	if birthdate != "" {
		if _, ok := temporal.ParseDate(birthdate); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Birthdate must be a valid date (YYYY-MM-DD)"})
			return
		}
	}

	db := database.GetDB()
	var person models.Person
	if err := db.Where("id = ? AND user_id = ?", personID, profileID).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "birthday not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return
	}

	updates := map[string]interface{}{
		"name":      name,
		"birthdate": nullableString(birthdate),
		"notes":     nullableString(strings.TrimSpace(req.Notes)),
	}

	extended := map[string]interface{}{
		"email":        nullableString(strings.TrimSpace(req.Email)),
		"relationship": nullableString(strings.TrimSpace(req.Relationship)),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		extended["linked_profile_id"] = nullableString(findProfileIDByEmail(db, email))
	} else {
		extended["linked_profile_id"] = nil
	}

	full := map[string]interface{}{}
	for k, v := range updates {
		full[k] = v
	}
	for k, v := range extended {
		full[k] = v
	}

	schemaWarning := false
	err := db.Model(&person).Updates(full).Error
	if err != nil && isPeopleSchemaMismatch(err) {
		log.Printf("Warning: birthdays schema mismatch on update, retrying with reduced columns: %v", err)
		schemaWarning = true
		err = db.Model(&person).Updates(updates).Error
	}
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update birthday", err)
		return
	}

	if err := db.Where("id = ?", personID).Select(selectForWarning(schemaWarning)).First(&person).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to reload birthday", err)
		return
	}

	if schemaWarning {
		c.JSON(http.StatusOK, gin.H{"person": person, "schema_warning": schemaWarningMessage})
		return
	}
	c.JSON(http.StatusOK, person)
}

// selectForWarning picks the column list for a reload after an update
func selectForWarning(reduced bool) []string {
	if reduced {
		return reducedPersonColumns
	}
	return []string{"*"}
}

// nullableString maps "" to NULL for nullable text columns
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// DeletePerson removes one of the caller's birthday records
func DeletePerson(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	personID := c.Param("id")

	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", personID, profileID).Delete(&models.Person{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete birthday", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "birthday not found"})
		return
	}

	if err := LogActivity(profileID, "delete_person", personID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "birthday deleted"})
}

// backfillBatchSize caps how many unlinked records one backfill call touches
const backfillBatchSize = 20

// BackfillLinks links existing birthday records that carry an email but no
// profile reference yet. Bounded per call so it stays cheap to retry.
func BackfillLinks(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	db := database.GetDB()

	var candidates []models.Person
	err := db.Where("user_id = ? AND email IS NOT NULL AND linked_profile_id IS NULL", profileID).
		Limit(backfillBatchSize).
		Find(&candidates).Error
	if err != nil {
		if isPeopleSchemaMismatch(err) {
			c.JSON(http.StatusOK, gin.H{"linked": 0, "schema_warning": schemaWarningMessage})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load candidates", err)
		return
	}

	linked := 0
	for i := range candidates {
		if candidates[i].Email == nil {
			continue
		}
		match := findProfileIDByEmail(db, *candidates[i].Email)
		if match == "" {
			continue
		}
		if err := db.Model(&candidates[i]).Update("linked_profile_id", match).Error; err != nil {
			log.Printf("Warning: failed to link birthday %s: %v", candidates[i].ID, err)
			continue
		}
		linked++
	}

	c.JSON(http.StatusOK, gin.H{"linked": linked, "scanned": len(candidates)})
}

// InvitePerson emails an invite to a birthday record's contact address
func InvitePerson(c *gin.Context) {
	profileID := c.GetString(auth.CtxProfileID)
	inviterName := c.GetString(auth.CtxName)
	personID := c.Param("id")

	db := database.GetDB()
	var person models.Person
	if err := db.Where("id = ? AND user_id = ?", personID, profileID).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "birthday not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "database error", err)
		return
	}

	if person.Email == nil || strings.TrimSpace(*person.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This person has no email address"})
		return
	}

	emailService := services.NewEmailService()
	if err := emailService.SendInviteEmail(*person.Email, person.Name, inviterName); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to send invite", err)
		return
	}

	if err := LogActivity(profileID, "invite_person", personID); err != nil {
		log.Printf("Warning: Failed to log activity: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "invite sent"})
}
