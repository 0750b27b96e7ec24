package data

import (
	"database/sql"
	"errors"
)

var (
	ErrNoRecordFound = errors.New("record not found")
	ErrEditConflict  = errors.New("edit conflict")
)

// Models aggregates the data stores used by the handlers. The fields are
// interfaces so tests can substitute in-memory implementations.
type Models struct {
	Users  UserStore
	Movies MovieStore
	Orders OrderStore
}

type UserStore interface {
	Insert(user *User) error
	Get(id int) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(user *User) error
}

type MovieStore interface {
	Insert(movie *Movie) error
	GetAll() ([]*Movie, error)
	Get(id int) (*Movie, error)
	Delete(id int) error
}

type OrderStore interface {
	Insert(order *MovieOrder) error
}

func NewModels(db *sql.DB) Models {
	return Models{
		Users:  &UserModel{DB: db},
		Movies: &MovieModel{DB: db},
		Orders: &OrderModel{DB: db},
	}
}
