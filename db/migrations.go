package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
	"gopkg.in/gormigrate.v1"
)

func (db *DB) Migrate() error {
	options := &gormigrate.Options{
		TableName:      "migrations",
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: false,
	}

	// $ date '+%Y%m%d%H%M'
	migrations := []*gormigrate.Migration{
		construct("202410191200", migrateInitSchema),
		construct("202410191230", migrateShowForeignKeys),
		construct("202411021915", migrateNameUDec),
	}

	return gormigrate.
		New(db.DB, options, migrations).
		Migrate()
}

func construct(id string, f func(*gorm.DB) error) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(db *gorm.DB) error {
			tx := db.Begin()
			if err := f(tx); err != nil {
				tx.Rollback()
				return fmt.Errorf("%q: %w", id, err)
			}
			if err := tx.Commit().Error; err != nil {
				return fmt.Errorf("%q: commit: %w", id, err)
			}
			zap.S().Infow("migration finished", "id", id)
			return nil
		},
		Rollback: func(*gorm.DB) error {
			return nil
		},
	}
}

func migrateInitSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		Setting{},
		Venue{},
		Artist{},
		Show{},
	).
		Error
}

// mysql parses and then ignores the inline REFERENCES on the shows columns,
// so the constraints are added separately. sqlite can't ALTER TABLE ADD
// CONSTRAINT, and postgres already has them
func migrateShowForeignKeys(tx *gorm.DB) error {
	if tx.Dialect().GetName() != string(DialectMySQL) {
		return nil
	}
	step := tx.Model(Show{}).AddForeignKey("artist_id", "artists(id)", "CASCADE", "RESTRICT")
	if err := step.Error; err != nil {
		return fmt.Errorf("step artist fk: %w", err)
	}
	step = tx.Model(Show{}).AddForeignKey("venue_id", "venues(id)", "CASCADE", "RESTRICT")
	if err := step.Error; err != nil {
		return fmt.Errorf("step venue fk: %w", err)
	}
	return nil
}

// migrateNameUDec fills name_udec for rows written before the column was kept
// up to date by the models' save hooks
func migrateNameUDec(tx *gorm.DB) error {
	var venues []*Venue
	if err := tx.Where("name_udec IS NULL OR name_udec=''").Find(&venues).Error; err != nil {
		return fmt.Errorf("step find venues: %w", err)
	}
	for _, venue := range venues {
		err := tx.
			Model(venue).
			UpdateColumn("name_udec", FoldName(venue.Name)).
			Error
		if err != nil {
			return fmt.Errorf("step update venue %d: %w", venue.ID, err)
		}
	}
	var artists []*Artist
	if err := tx.Where("name_udec IS NULL OR name_udec=''").Find(&artists).Error; err != nil {
		return fmt.Errorf("step find artists: %w", err)
	}
	for _, artist := range artists {
		err := tx.
			Model(artist).
			UpdateColumn("name_udec", FoldName(artist.Name)).
			Error
		if err != nil {
			return fmt.Errorf("step update artist %d: %w", artist.ID, err)
		}
	}
	return nil
}
