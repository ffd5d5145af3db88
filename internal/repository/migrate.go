package repository

import (
	"fmt"

	"pmboard/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credentials seeded for the built-in account and for accounts migrated
// from the legacy schema, which stored no passwords.
const (
	SeedUsername = "user"
	SeedPassword = "password"
)

const legacyTable = "user_boards"

// Migrate brings the database to the current schema. It creates the users
// and boards tables, folds a legacy single-table-per-username layout into
// them if one is present, and ensures the built-in account exists. Safe to
// run on every startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Board{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := migrateLegacyBoards(db); err != nil {
		return fmt.Errorf("failed to migrate legacy boards: %w", err)
	}
	if err := seedBuiltinUser(db); err != nil {
		return fmt.Errorf("failed to seed built-in user: %w", err)
	}
	return nil
}

type legacyRow struct {
	Username  string
	BoardJSON string `gorm:"column:board_json"`
}

// migrateLegacyBoards detects the deprecated user_boards table and moves
// each row into the multi-user layout: one user with a placeholder
// credential, one board carrying the legacy document verbatim. The table is
// dropped afterwards, so the migration runs exactly once.
func migrateLegacyBoards(db *gorm.DB) error {
	if !db.Migrator().HasTable(legacyTable) {
		return nil
	}

	var rows []legacyRow
	if err := db.Table(legacyTable).Select("username", "board_json").Find(&rows).Error; err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var existing int64
			if err := tx.Model(&model.User{}).Where("username = ?", row.Username).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := &model.User{
				ID:           uuid.NewString(),
				Username:     row.Username,
				PasswordHash: string(hash),
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}

			board := &model.Board{
				ID:        "board-" + uuid.NewString(),
				UserID:    user.ID,
				Name:      model.DefaultBoardName,
				BoardJSON: row.BoardJSON,
			}
			if err := tx.Create(board).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return db.Migrator().DropTable(legacyTable)
}

// seedBuiltinUser ensures the default account exists with one board.
// Idempotent: a second run finds the user and does nothing.
func seedBuiltinUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", SeedUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			ID:           uuid.NewString(),
			Username:     SeedUsername,
			PasswordHash: string(hash),
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		board := &model.Board{
			ID:     "board-" + uuid.NewString(),
			UserID: user.ID,
			Name:   model.DefaultBoardName,
		}
		if err := board.SetDocument(model.DefaultDocument()); err != nil {
			return err
		}
		return tx.Create(board).Error
	})
}
