package repository

import (
	"context"
	"strings"
)

// ShowSearchQuery defines filters & pagination for searching shows.
type ShowSearchQuery struct {
	Title      string
	Screen     string
	TimeFilter string
	Page       int
	PageSize   int
}

// PublicShowRow is a denormalized listing row. SeatsAvailable counts
// seats not held by an active booking and is computed without locking,
// so it is advisory only.
type PublicShowRow struct {
	ID             uint64 `json:"id"`
	MovieID        uint64 `json:"movie_id"`
	Title          string `json:"title"`
	ScreenName     string `json:"screen_name"`
	StartsAt       string `json:"starts_at"`
	TotalSeats     uint32 `json:"total_seats"`
	SeatsAvailable int64  `json:"seats_available"`
}

func (r *ShowRepo) SearchUpcoming(ctx context.Context, q ShowSearchQuery) ([]PublicShowRow, int64, error) {
	where := []string{}
	args := []any{}

	switch strings.ToLower(q.TimeFilter) {
	case "any":
	default:
		where = append(where, "s.starts_at >= NOW()")
	}

	if q.Title != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Screen != "" {
		where = append(where, "LOWER(s.screen_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Screen)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM shows s
		JOIN movies m ON m.id = s.movie_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			s.id,
			s.movie_id,
			m.title,
			s.screen_name,
			DATE_FORMAT(s.starts_at, '%Y-%m-%d %T') AS starts_at,
			s.total_seats,
			s.total_seats - (
				SELECT COUNT(*) FROM bookings b
				WHERE b.show_id = s.id AND b.status = 'booked'
			) AS seats_available
		FROM shows s
		JOIN movies m ON m.id = s.movie_id
		WHERE ` + cond + `
		ORDER BY s.starts_at ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicShowRow, 0, limit)
	for rows.Next() {
		var d PublicShowRow
		if err := rows.Scan(
			&d.ID,
			&d.MovieID,
			&d.Title,
			&d.ScreenName,
			&d.StartsAt,
			&d.TotalSeats,
			&d.SeatsAvailable,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
