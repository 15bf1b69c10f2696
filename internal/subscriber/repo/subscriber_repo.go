package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// SubscriberRepo stores subscribers in a SQL table through sqlx. It speaks
// both the postgres and the sqlite3 dialect; queries are written with `?`
// and rebound for the connected driver.
type SubscriberRepo struct {
	db *sqlx.DB
}

func NewSubscriberRepo(db *sqlx.DB) *SubscriberRepo {
	return &SubscriberRepo{db: db}
}

// EnsureTable creates the subscribers table if it does not already exist.
// Ids come from BIGSERIAL on postgres and AUTOINCREMENT on sqlite, neither
// of which hands out a deleted id again.
func (r *SubscriberRepo) EnsureTable(ctx context.Context) error {
	idCol := "id BIGSERIAL PRIMARY KEY"
	if r.db.DriverName() == "sqlite3" {
		idCol = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	tbl := `
	CREATE TABLE IF NOT EXISTS subscribers (
		` + idCol + `,
		email TEXT,
		surname TEXT,
		lastname TEXT,
		address TEXT,
		city TEXT,
		postal_code TEXT,
		phone_number TEXT
	)`
	if _, err := r.db.ExecContext(ctx, tbl); err != nil {
		return wrapError(err)
	}

	const idx = `CREATE INDEX IF NOT EXISTS idx_subscribers_email ON subscribers (email)`
	if _, err := r.db.ExecContext(ctx, idx); err != nil {
		return wrapError(err)
	}
	return nil
}

// Create inserts every provided field and returns the id assigned by the
// store. Any id on s is ignored.
func (r *SubscriberRepo) Create(ctx context.Context, s *entity.Subscriber) (int64, error) {
	q := r.db.Rebind(`INSERT INTO subscribers (email, surname, lastname, address, city, postal_code, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	row := r.db.QueryRowxContext(ctx, q,
		s.Email, s.Surname, s.Lastname, s.Address, s.City, s.PostalCode, s.PhoneNumber)
	if err := row.Scan(&id); err != nil {
		return 0, wrapError(err)
	}
	return id, nil
}

// Update overwrites every column of the row matching s's id, including
// columns whose value is nil. A missing id targets entity.NoID.
// It returns the number of rows affected.
func (r *SubscriberRepo) Update(ctx context.Context, s *entity.Subscriber) (int64, error) {
	q := r.db.Rebind(`UPDATE subscribers
		SET email = ?, surname = ?, lastname = ?, address = ?, city = ?, postal_code = ?, phone_number = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q,
		s.Email, s.Surname, s.Lastname, s.Address, s.City, s.PostalCode, s.PhoneNumber, s.IDOrNone())
	if err != nil {
		return 0, wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(err)
	}
	return n, nil
}

// Delete removes the row with the given id and returns the rows affected.
func (r *SubscriberRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM subscribers WHERE id = ?`), id)
	if err != nil {
		return 0, wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(err)
	}
	return n, nil
}

// List returns every row in store order. NULL text columns come back as "".
func (r *SubscriberRepo) List(ctx context.Context) ([]entity.Subscriber, error) {
	const q = `SELECT id,
		COALESCE(email, '') AS email,
		COALESCE(surname, '') AS surname,
		COALESCE(lastname, '') AS lastname,
		COALESCE(address, '') AS address,
		COALESCE(city, '') AS city,
		COALESCE(postal_code, '') AS postal_code,
		COALESCE(phone_number, '') AS phone_number
	FROM subscribers`
	out := []entity.Subscriber{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, wrapError(err)
	}
	return out, nil
}

// Ping checks that the store is reachable.
func (r *SubscriberRepo) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("no database handle")
	}
	return wrapError(r.db.PingContext(ctx))
}
