package domain

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxManager is the atomic unit-of-work primitive. *gorm.DB satisfies it;
// tests substitute an in-memory implementation.
type TxManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
