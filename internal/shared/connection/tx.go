package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm handle bound to ctx. When tx is set, statements run on
// that transaction instead of the pool, which lets a service own the
// *sql.Tx while gorm repositories do the querying.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	bound := db.Session(&gorm.Session{Context: ctx, NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}
