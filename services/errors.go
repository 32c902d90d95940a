package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-management/models"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueRule maps a unique column to the field error reported for it.
type uniqueRule struct {
	table  string
	column string
	field  string
	err    error
}

// matches reports whether key names this rule's index. Drivers report the
// gorm index name (idx_users_email, optionally prefixed by the table) or,
// for sqlite, table.column.
func (r uniqueRule) matches(key string) bool {
	if i := strings.LastIndex(key, "."); i >= 0 && strings.HasPrefix(key, r.table+".") {
		key = key[i+1:]
	}
	return key == "idx_"+r.table+"_"+r.column || key == r.column
}

var userUniqueRules = []uniqueRule{
	{"users", "email", "email", models.ErrDuplicateEmail},
	{"users", "phone_number", "phone_number", models.ErrDuplicatePhone},
	{"users", "username", "username", models.ErrDuplicateUsername},
}

var hotelUniqueRules = []uniqueRule{
	{"hotels", "name", "name", models.ErrDuplicateHotelName},
}

const sqliteUniquePrefix = "UNIQUE constraint failed: "

// duplicateKeyDetail reports whether err is a unique violation and returns
// the name of the offending key when the driver gives one.
func duplicateKeyDetail(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlKeyName(myErr.Message), myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	msg := err.Error()
	if i := strings.Index(msg, sqliteUniquePrefix); i >= 0 {
		key := msg[i+len(sqliteUniquePrefix):]
		if j := strings.IndexAny(key, " ,"); j >= 0 {
			key = key[:j]
		}
		return key, true
	}
	if strings.Contains(strings.ToLower(msg), "duplicate entry") {
		return mysqlKeyName(msg), true
	}
	return "", false
}

// mysqlKeyName pulls the key out of "Duplicate entry 'v' for key 'k'".
func mysqlKeyName(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return ""
	}
	key := msg[i+len("for key '"):]
	return strings.TrimSuffix(key, "'")
}

func translateDuplicate(err error, rules []uniqueRule) error {
	key, ok := duplicateKeyDetail(err)
	if !ok {
		return err
	}
	for _, r := range rules {
		if r.matches(key) {
			return &models.FieldError{Field: r.field, Err: r.err}
		}
	}
	return &models.FieldError{Field: rules[0].field, Err: rules[0].err}
}

// isForeignKeyError detects a MySQL FK violation (1452) or the equivalent
// from other drivers.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
