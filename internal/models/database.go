package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database, migrates the schema and prepares the data.
//
// DSNs starting with postgres:// or postgresql:// connect to PostgreSQL,
// everything else is treated as the path of a SQLite database.
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: &gormLogger{
			log: log.Logger,
		},
	}

	if IsPostgres(dsn) {
		db, err := gorm.Open(postgres.Open(dsn), config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := migrate(db); err != nil {
			return nil, err
		}

		return setup(db)
	}

	// The migration runs with foreign keys disabled: sqlite does not
	// support ALTER COLUMN, gorm copies the table, drops and recreates it
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	db, err = gorm.Open(sqlite.Open(dsn+separator+"_pragma=foreign_keys(1)"), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetConnMaxLifetime(time.Hour)

	// One connection only, parallel connections fail with SQLITE_BUSY
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return setup(db)
}

// IsPostgres reports if the DSN points to a PostgreSQL database.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// setup registers the callbacks and prepares the data.
func setup(db *gorm.DB) (*gorm.DB, error) {
	if err := registerCallbacks(db); err != nil {
		return nil, err
	}

	if err := CreateDefaultCategories(db); err != nil {
		return nil, fmt.Errorf("error creating default categories: %w", err)
	}

	if err := deleteDanglingCategories(db); err != nil {
		return nil, fmt.Errorf("error removing dangling categories: %w", err)
	}

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
		fn       func(*gorm.DB)
	}{
		{"buckets:after_query", db.Callback().Query().After("*").Register, queryCallback},
		{"buckets:after_query_general", db.Callback().Query().After("*").Register, generalCallback},
		{"buckets:after_row", db.Callback().Row().After("*").Register, generalCallback},
		{"buckets:after_create", db.Callback().Create().After("*").Register, createUpdateCallback},
		{"buckets:after_create_general", db.Callback().Create().After("*").Register, generalCallback},
		{"buckets:after_update", db.Callback().Update().After("*").Register, createUpdateCallback},
		{"buckets:after_update_general", db.Callback().Update().After("*").Register, generalCallback},
		{"buckets:after_delete_general", db.Callback().Delete().After("*").Register, generalCallback},
	}

	for _, c := range callbacks {
		if err := c.register(c.name, c.fn); err != nil {
			return fmt.Errorf("registering callback %s: %w", c.name, err)
		}
	}

	return nil
}

var plural = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with one
// that names the resource.
func queryCallback(db *gorm.DB) {
	if !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		return
	}

	// "record_templates" → "record template", "categories" → "category"
	name := strings.ReplaceAll(db.Statement.Table, "_", " ")
	name = plural.ReplaceAllString(name, "y")
	name = strings.TrimSuffix(name, "s")

	db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
}

// constraintErrors maps database constraint names to the errors returned
// to callers.
//
// SQLite reports "UNIQUE constraint failed: accounts.name", PostgreSQL
// reports the index name, so both forms are listed.
var constraintErrors = []struct {
	match string
	err   error
}{
	{"accounts.name", ErrAccountNameNotUnique},
	{"idx_accounts_name", ErrAccountNameNotUnique},
	{"amount_positive", ErrAmountNotPositive},
	{"transfer_not_income", ErrTransferIsIncome},
	{"transfer_destination_different", ErrTransferDestinationIsOrigin},
}

// createUpdateCallback replaces constraint violations with user friendly errors.
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	if !strings.Contains(msg, "constraint") {
		return
	}

	for _, c := range constraintErrors {
		if strings.Contains(msg, c.match) {
			db.Error = c.err
			return
		}
	}
}

// generalCallback handles errors we cannot give the user helpful
// information for.
//
// The error is logged for the administrator and replaced with ErrGeneral.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in database/sql
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Str("type", fmt.Sprintf("%T", db.Error)).Err(db.Error).Msg("database error")
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Account{}, Bucket{}, Category{}, Record{}, RecordTemplate{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}

type defaultCategory struct {
	name          string
	nature        Nature
	color         string
	subcategories []defaultSubcategory
}

type defaultSubcategory struct {
	name   string
	nature Nature
}

var defaultCategories = []defaultCategory{
	{"Food & Drinks", NatureNeed, "orange", []defaultSubcategory{
		{"Groceries", NatureNeed},
		{"Restaurants", NatureWant},
		{"Coffee & Snacks", NatureWant},
	}},
	{"Housing", NatureMust, "blue", []defaultSubcategory{
		{"Rent", NatureMust},
		{"Utilities", NatureMust},
		{"Maintenance", NatureNeed},
	}},
	{"Transportation", NatureNeed, "cyan", []defaultSubcategory{
		{"Public Transport", NatureNeed},
		{"Fuel", NatureNeed},
		{"Taxi", NatureWant},
	}},
	{"Shopping", NatureWant, "magenta", []defaultSubcategory{
		{"Clothes", NatureWant},
		{"Electronics", NatureWant},
		{"Gifts", NatureWant},
	}},
	{"Health", NatureMust, "red", []defaultSubcategory{
		{"Pharmacy", NatureMust},
		{"Doctor", NatureMust},
	}},
	{"Entertainment", NatureWant, "yellow", []defaultSubcategory{
		{"Subscriptions", NatureWant},
		{"Events", NatureWant},
	}},
	{"Income", NatureNeed, "green", []defaultSubcategory{
		{"Salary", NatureNeed},
		{"Interest", NatureNeed},
	}},
}

// CreateDefaultCategories fills an empty category table.
//
// Soft deleted categories count, so deleting all categories does not
// recreate the defaults.
func CreateDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Unscoped().Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range defaultCategories {
			parent := Category{CategoryEditable: CategoryEditable{Name: d.name, Nature: d.nature, Color: d.color}}
			if err := tx.Create(&parent).Error; err != nil {
				return err
			}

			for _, s := range d.subcategories {
				child := Category{CategoryEditable: CategoryEditable{
					Name:             s.name,
					Nature:           s.nature,
					Color:            d.color,
					ParentCategoryID: &parent.ID,
				}}

				if err := tx.Create(&child).Error; err != nil {
					return err
				}
			}
		}

		log.Info().Int("categories", len(defaultCategories)).Msg("created default categories")
		return nil
	})
}

// deleteDanglingCategories soft deletes categories whose parent is soft deleted.
func deleteDanglingCategories(db *gorm.DB) error {
	deleted := db.Unscoped().Model(&Category{}).Select("id").Where("deleted_at IS NOT NULL")

	result := db.Where("parent_category_id IN (?)", deleted).Delete(&Category{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Info().Int64("categories", result.RowsAffected).Msg("deleted categories with deleted parent")
	}

	return nil
}
