package payments

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationLedger records verified notifications. Record reports whether
// the same (gateway, ref, status) tuple was seen before.
type NotificationLedger interface {
	Record(ctx context.Context, e NotificationEvent) (bool, error)
}

// Ledger is the MySQL-backed NotificationLedger.
type Ledger struct{ db *gorm.DB }

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

func (l *Ledger) Record(ctx context.Context, e NotificationEvent) (bool, error) {
	res := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&e)
	if res.Error != nil {
		// some MySQL setups still surface 1062 instead of honoring the clause
		if isDup(res.Error) {
			return true, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
