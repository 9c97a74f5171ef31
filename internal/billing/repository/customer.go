package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/pkg/database"
)

// Customer is a shopper identified by email
type Customer struct {
	ID               int64     `db:"customer_id" json:"customer_id"`
	Email            string    `db:"email" json:"email"`
	Name             *string   `db:"name" json:"name,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
}

// Feedback is a customer's rating of a visit
type Feedback struct {
	ID         int64     `db:"feedback_id" json:"feedback_id"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comments   *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CustomerRepository handles customers and their feedback
type CustomerRepository struct {
	db *database.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Resolve returns the customer with email, creating one when none exists.
// created reports whether a row was inserted.
func (r *CustomerRepository) Resolve(ctx context.Context, tx sqlx.QueryerContext, email string) (c *Customer, created bool, err error) {
	var existing Customer
	query := `SELECT customer_id, email, name, phone, registration_date FROM customers WHERE email = $1`
	err = sqlx.GetContext(ctx, tx, &existing, query, email)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	c = &Customer{Email: email}
	insert := `INSERT INTO customers (email) VALUES ($1) RETURNING customer_id, registration_date`
	if err := tx.QueryRowxContext(ctx, insert, email).Scan(&c.ID, &c.RegistrationDate); err != nil {
		return nil, false, database.Translate(err, "customer")
	}
	return c, true, nil
}

// AddFeedback stores a feedback entry
func (r *CustomerRepository) AddFeedback(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO customer_feedback (customer_id, rating, comments)
		VALUES ($1, $2, $3)
		RETURNING feedback_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, f.CustomerID, f.Rating, f.Comments).Scan(&f.ID, &f.CreatedAt)
	return database.Translate(err, "customer")
}
