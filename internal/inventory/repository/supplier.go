package repository

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
)

// Supplier represents a supplier
type Supplier struct {
	ID            int64     `db:"supplier_id" json:"supplier_id"`
	Name          string    `db:"supplier_name" json:"supplier_name"`
	ContactPerson string    `db:"contact_person" json:"contact_person"`
	Phone         string    `db:"phone" json:"phone"`
	Email         string    `db:"email" json:"email"`
	Address       *string   `db:"address" json:"address,omitempty"`
	City          *string   `db:"city" json:"city,omitempty"`
	Country       *string   `db:"country" json:"country,omitempty"`
	GSTNumber     string    `db:"gst_number" json:"gst_number"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SupplierFilter narrows supplier listings
type SupplierFilter struct {
	Search string
	Status string
}

// SupplierRepository handles supplier persistence
type SupplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *database.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `
	supplier_id, supplier_name, contact_person, phone, email, address, city, country,
	gst_number, status, created_at`

// List lists suppliers; Search matches name, contact person or email
func (r *SupplierRepository) List(ctx context.Context, filter SupplierFilter) ([]*Supplier, error) {
	var f Filter
	if filter.Search != "" {
		f.Contains(filter.Search, "supplier_name", "contact_person", "email")
	}
	if filter.Status != "" {
		f.Eq("status", filter.Status)
	}

	query := `SELECT ` + supplierColumns + ` FROM suppliers` + f.Where() + ` ORDER BY supplier_name`

	var suppliers []*Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, f.Args()...); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetByID gets a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*Supplier, error) {
	var s Supplier
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, database.Translate(err, "supplier")
	}
	return &s, nil
}

// Create inserts a supplier
func (r *SupplierRepository) Create(ctx context.Context, s *Supplier) error {
	query := `
		INSERT INTO suppliers (
			supplier_name, contact_person, phone, email, address, city, country, gst_number, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING supplier_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.City, s.Country, s.GSTNumber, s.Status,
	).Scan(&s.ID, &s.CreatedAt)
	return database.Translate(err, "supplier")
}

// Update updates a supplier
func (r *SupplierRepository) Update(ctx context.Context, s *Supplier) error {
	query := `
		UPDATE suppliers SET
			supplier_name = $2, contact_person = $3, phone = $4, email = $5, address = $6,
			city = $7, country = $8, gst_number = $9, status = $10
		WHERE supplier_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.City, s.Country, s.GSTNumber, s.Status,
	)
	if err != nil {
		return database.Translate(err, "supplier")
	}
	return requireRow(result, "supplier")
}
