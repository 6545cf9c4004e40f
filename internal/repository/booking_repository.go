package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Kunals990/movie-ticket-booking/internal/model"
	"github.com/Kunals990/movie-ticket-booking/internal/service"
)

// mysqlErrLockWaitTimeout is the server error returned when an InnoDB
// row lock could not be acquired within innodb_lock_wait_timeout.
const mysqlErrLockWaitTimeout = 1205

// BookingRepo provides persistence for bookings and implements the
// allocator's store contract (service.Store). The exclusive unit of
// work required by Reserve is realised as a transaction that locks the
// show row with SELECT ... FOR UPDATE, so concurrent reservations for
// the same show queue on the row lock while other shows proceed
// unhindered.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to compose
// transactions across repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// reserveUnit is the transaction-scoped view handed to the allocator
// callback. All queries run on the transaction that holds the show
// row lock.
type reserveUnit struct {
	tx   *sql.Tx
	show *model.Show
}

func (u *reserveUnit) Show() *model.Show { return u.show }

// CountBooked counts active bookings for the locked show. The read
// happens inside the locking transaction, so the count cannot change
// before the unit commits.
func (u *reserveUnit) CountBooked(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE show_id = ? AND status = 'booked'`
	var n int
	if err := u.tx.QueryRowContext(ctx, q, u.show.ID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SeatBooked reports whether an active booking exists for the seat on
// the locked show.
func (u *reserveUnit) SeatBooked(ctx context.Context, seatNumber uint32) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE show_id = ? AND seat_number = ? AND status = 'booked')`
	var exists bool
	if err := u.tx.QueryRowContext(ctx, q, u.show.ID, seatNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert persists a new booking row within the unit's transaction and
// populates the generated ID and timestamps on the record.
func (u *reserveUnit) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, user_id, show_id, seat_number, status) VALUES (?, ?, ?, ?, ?)`
	res, err := u.tx.ExecContext(ctx, q, b.Reference, b.UserID, b.ShowID, b.SeatNumber, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to populate DB-assigned timestamps.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return u.tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// ReserveUnit implements service.Store. It opens a transaction, locks
// the show row exclusively and runs fn against the locked state. The
// transaction commits only when fn returns nil; any error from the
// lock, fn or the commit rolls everything back, so rejections never
// leave partial writes. A missing show maps to service.ErrShowNotFound
// and a lock wait that exceeds the server or context deadline maps to
// the retryable service.ErrLockTimeout.
func (r *BookingRepo) ReserveUnit(ctx context.Context, showID uint64, fn func(u service.ReserveUnit) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `SELECT id, movie_id, screen_name, starts_at, total_seats, created_at FROM shows WHERE id = ? FOR UPDATE`
	var s model.Show
	err = tx.QueryRowContext(ctx, lockQ, showID).Scan(
		&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return service.ErrShowNotFound
		}
		return mapLockErr(err)
	}

	if err := fn(&reserveUnit{tx: tx, show: &s}); err != nil {
		return mapLockErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapLockErr(err)
	}
	committed = true
	return nil
}

// mapLockErr translates lock-wait failures into the allocator's
// retryable sentinel and passes every other error through unchanged.
func mapLockErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrLockWaitTimeout {
		return service.ErrLockTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrLockTimeout
	}
	return err
}

// GetBooking implements service.Store. It loads a booking by ID and
// returns service.ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT id, reference, user_id, show_id, seat_number, status, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.Reference, &b.UserID, &b.ShowID, &b.SeatNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// MarkCancelled implements service.Store. The status predicate keeps
// the write idempotent: rows already cancelled are left untouched.
func (r *BookingRepo) MarkCancelled(ctx context.Context, bookingID uint64) error {
	const q = `UPDATE bookings SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status <> 'cancelled'`
	_, err := r.db.ExecContext(ctx, q, bookingID)
	return err
}

// BookingDetail is a booking joined with its show and movie for
// display to customers. It is returned by ListByUser.
type BookingDetail struct {
	ID         uint64    `json:"id"`
	Reference  string    `json:"reference"`
	ShowID     uint64    `json:"show_id"`
	SeatNumber uint32    `json:"seat_number"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	MovieTitle string    `json:"movie_title"`
	ScreenName string    `json:"screen_name"`
	StartsAt   time.Time `json:"starts_at"`
}

// ListByUser returns all bookings for the given user, newest first,
// with show and movie details attached. Cancelled bookings are
// included so customers can see their history. When no bookings exist
// an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.reference, b.show_id, b.seat_number, b.status, b.created_at,
	                  m.title, s.screen_name, s.starts_at
	           FROM bookings b
	           JOIN shows s ON s.id = b.show_id
	           JOIN movies m ON m.id = s.movie_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.Reference, &d.ShowID, &d.SeatNumber, &d.Status, &d.CreatedAt,
			&d.MovieTitle, &d.ScreenName, &d.StartsAt,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
