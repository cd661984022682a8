package persistence

import (
	"errors"

	"github.com/courseplatform/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM's translated driver errors onto domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrConflict
	default:
		return err
	}
}
