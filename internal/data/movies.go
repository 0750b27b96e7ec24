package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cineshop/internal/validator"
)

// Ratings is the fixed set of certificates a movie can carry. "G" is the
// default when the client omits the field.
var Ratings = []string{"G", "PG", "PG-13", "R", "NC-17"}

const DefaultRating = "G"

type Movie struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Duration  *string   `json:"duration"`
	Rating    string    `json:"rating"`
	Synopsis  *string   `json:"synopsis"`
	AddedBy   string    `json:"added_by"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"-"`
}

func ValidateMovie(v *validator.Validator, movie *Movie) {
	v.Check(movie.Title != "", "title", "title must be provided")
	v.Check(validator.MaxChars(movie.Title, 127), "title", "title cannot be more than 127 characters")

	if movie.Duration != nil {
		v.Check(validator.MaxChars(*movie.Duration, 10), "duration", "duration cannot be more than 10 characters")
	}

	v.Check(validator.In(movie.Rating, Ratings...), "rating", "rating must be one of G, PG, PG-13, R, NC-17")
}

type MovieModel struct {
	DB *sql.DB
}

func (m *MovieModel) Insert(movie *Movie) error {
	query := `INSERT INTO movies (title, duration, rating, synopsis, user_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`
	args := []interface{}{
		movie.Title,
		movie.Duration,
		movie.Rating,
		movie.Synopsis,
		movie.UserID,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

	defer cancel()
	return m.DB.QueryRowContext(ctx, query, args...).Scan(&movie.ID, &movie.CreatedAt)
}

func (m *MovieModel) GetAll() ([]*Movie, error) {
	// added_by carries the creating employee's email, so the listing joins
	// users instead of exposing the raw foreign key.
	query := `SELECT m.id, m.created_at, m.title, m.duration, m.rating, m.synopsis, m.user_id, u.email
	FROM movies m
	INNER JOIN users u ON u.id = m.user_id
	ORDER BY m.id ASC`

	movies := []*Movie{}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		movie := &Movie{}
		err := rows.Scan(&movie.ID, &movie.CreatedAt, &movie.Title, &movie.Duration, &movie.Rating, &movie.Synopsis, &movie.UserID, &movie.AddedBy)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func (m *MovieModel) Get(id int) (*Movie, error) {
	if id < 1 {
		return nil, ErrNoRecordFound
	}

	var movie Movie

	query := `SELECT m.id, m.created_at, m.title, m.duration, m.rating, m.synopsis, m.user_id, u.email
	FROM movies m
	INNER JOIN users u ON u.id = m.user_id
	WHERE m.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, id).Scan(&movie.ID, &movie.CreatedAt, &movie.Title, &movie.Duration, &movie.Rating, &movie.Synopsis, &movie.UserID, &movie.AddedBy)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNoRecordFound
		default:
			return nil, err
		}
	}
	return &movie, nil
}

func (m *MovieModel) Delete(id int) error {
	if id < 1 {
		return ErrNoRecordFound
	}

	query := `DELETE FROM movies WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRecordFound
	}
	return nil
}
