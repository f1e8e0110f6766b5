// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// containsClause matches a lowercased column against a pattern built by containsPattern.
const containsClause = "LOWER(%s) LIKE ? ESCAPE '\\'"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// readDB picks the replica for list queries. Single-row lookups stay on the
// primary so a row is readable as soon as its insert commits.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// containsPattern turns a user-supplied fragment into a case-insensitive substring LIKE pattern.
func containsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
}

// blank reports whether a filter value should be ignored.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func lookupError(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// userNameSubquery selects ids of users whose name contains fragment.
func userNameSubquery(db *gorm.DB, fragment string) *gorm.DB {
	return db.Model(&models.User{}).
		Select("id").
		Where(columnContains("user_name"), containsPattern(fragment))
}

func columnContains(column string) string {
	return fmt.Sprintf(containsClause, column)
}
