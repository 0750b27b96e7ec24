package data

import (
	"context"
	"database/sql"
	"time"

	"cineshop/internal/validator"
)

type MovieOrder struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	BuyedBy string    `json:"buyed_by"`
	BuyedAt time.Time `json:"buyed_at"`
	Price   Price     `json:"price"`
	MovieID int       `json:"-"`
	UserID  int       `json:"-"`
}

// ValidateOrder checks the price that came in on the request. The price
// pointer distinguishes an absent field from a zero amount.
func ValidateOrder(v *validator.Validator, price *Price) {
	if price == nil {
		v.AddError("price", "price must be provided")
		return
	}
	v.Check(*price > 0, "price", "price must be greater than zero")
	v.Check(*price <= MaxPrice, "price", "price cannot be more than 999999.99")
}

type OrderModel struct {
	DB *sql.DB
}

func (m *OrderModel) Insert(order *MovieOrder) error {
	query := `INSERT INTO movie_orders (movie_id, user_id, price)
	VALUES ($1, $2, $3)
	RETURNING id, buyed_at`
	args := []interface{}{
		order.MovieID,
		order.UserID,
		order.Price,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

	defer cancel()
	return m.DB.QueryRowContext(ctx, query, args...).Scan(&order.ID, &order.BuyedAt)
}
