package model

import "time"

// Movie represents a row in the `movies` table. A movie is immutable
// once shows reference it; only admins may create new entries.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the movie.
//  DurationMin – running time in minutes.
//  CreatedAt   – creation timestamp.
type Movie struct {
	ID          uint64    `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	DurationMin uint32    `json:"duration_min"` // movies.duration_min
	CreatedAt   time.Time `json:"created_at"`   // movies.created_at
}
