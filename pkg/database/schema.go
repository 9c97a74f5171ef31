package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema returns the DDL statements for the back-office database in
// dependency order. Every statement is idempotent.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS departments (
			department_id BIGSERIAL PRIMARY KEY,
			department_name VARCHAR(100) NOT NULL,
			manager_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT departments_name_key UNIQUE (department_name)
		)`,

		`CREATE TABLE IF NOT EXISTS employees (
			employee_id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			role VARCHAR(50) NOT NULL,
			department_id BIGINT REFERENCES departments(department_id) ON DELETE SET NULL,
			phone VARCHAR(30),
			email VARCHAR(255) NOT NULL,
			address TEXT,
			dob DATE,
			gender VARCHAR(20),
			emergency_contact VARCHAR(100),
			hire_date DATE NOT NULL DEFAULT CURRENT_DATE,
			shift VARCHAR(20),
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			inactive_since TIMESTAMPTZ,
			password_hash TEXT NOT NULL,
			bank_account_number VARCHAR(40),
			bank_name VARCHAR(100),
			ifsc_code VARCHAR(20),
			account_holder_name VARCHAR(100),
			salary NUMERIC(12,2) NOT NULL DEFAULT 0,
			salary_mode VARCHAR(20),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT employees_email_key UNIQUE (email),
			CONSTRAINT employees_status_check CHECK (status IN ('Active', 'Inactive'))
		)`,

		`CREATE TABLE IF NOT EXISTS shifts (
			shift_id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(employee_id) ON DELETE CASCADE,
			shift_date DATE NOT NULL,
			shift_type VARCHAR(20) NOT NULL DEFAULT 'Not Assigned',
			CONSTRAINT shifts_employee_date_key UNIQUE (employee_id, shift_date),
			CONSTRAINT shifts_type_check CHECK (shift_type IN ('Morning', 'Night', 'Not Assigned'))
		)`,

		`CREATE TABLE IF NOT EXISTS attendance (
			attendance_id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(employee_id) ON DELETE CASCADE,
			attendance_date DATE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Present',
			leave_type VARCHAR(50),
			total_hours NUMERIC(5,2) NOT NULL DEFAULT 0,
			CONSTRAINT attendance_employee_date_key UNIQUE (employee_id, attendance_date),
			CONSTRAINT attendance_status_check CHECK (status IN ('Present', 'Absent', 'Leave'))
		)`,

		`CREATE TABLE IF NOT EXISTS leave_requests (
			leave_id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(employee_id) ON DELETE CASCADE,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			leave_type VARCHAR(50) NOT NULL,
			reason TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			reviewed_at TIMESTAMPTZ,
			CONSTRAINT leave_requests_range_check CHECK (end_date >= start_date),
			CONSTRAINT leave_requests_status_check CHECK (status IN ('Pending', 'Approved', 'Rejected'))
		)`,

		`CREATE TABLE IF NOT EXISTS payroll (
			payroll_id BIGSERIAL PRIMARY KEY,
			employee_id BIGINT NOT NULL REFERENCES employees(employee_id) ON DELETE CASCADE,
			payroll_month INT NOT NULL,
			payroll_year INT NOT NULL,
			base_salary NUMERIC(12,2) NOT NULL,
			total_hours_worked NUMERIC(8,2) NOT NULL DEFAULT 0,
			leave_deduction NUMERIC(12,2) NOT NULL DEFAULT 0,
			bonus NUMERIC(12,2) NOT NULL DEFAULT 0,
			hourly_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
			net_salary NUMERIC(12,2) NOT NULL DEFAULT 0,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT payroll_employee_month_key UNIQUE (employee_id, payroll_month, payroll_year)
		)`,

		`CREATE TABLE IF NOT EXISTS brands (
			brand_id BIGSERIAL PRIMARY KEY,
			brand_name VARCHAR(100) NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS product_categories (
			category_id BIGSERIAL PRIMARY KEY,
			category_name VARCHAR(100) NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS product_subcategories (
			subcategory_id BIGSERIAL PRIMARY KEY,
			category_id BIGINT NOT NULL REFERENCES product_categories(category_id) ON DELETE CASCADE,
			subcategory_name VARCHAR(100) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS suppliers (
			supplier_id BIGSERIAL PRIMARY KEY,
			supplier_name VARCHAR(150) NOT NULL,
			contact_person VARCHAR(100) NOT NULL,
			phone VARCHAR(30) NOT NULL,
			email VARCHAR(255) NOT NULL,
			address TEXT,
			city VARCHAR(100),
			country VARCHAR(100),
			gst_number VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			product_id BIGSERIAL PRIMARY KEY,
			product_name VARCHAR(150) NOT NULL,
			brand_id BIGINT REFERENCES brands(brand_id) ON DELETE SET NULL,
			category_id BIGINT NOT NULL REFERENCES product_categories(category_id),
			subcategory_id BIGINT REFERENCES product_subcategories(subcategory_id) ON DELETE SET NULL,
			supplier_id BIGINT REFERENCES suppliers(supplier_id) ON DELETE SET NULL,
			unit VARCHAR(20) NOT NULL,
			reorder_level INT NOT NULL DEFAULT 10,
			stock_threshold_alert BOOLEAN NOT NULL DEFAULT FALSE,
			tax_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			date_added TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS supplier_orders (
			order_id BIGSERIAL PRIMARY KEY,
			supplier_id BIGINT NOT NULL REFERENCES suppliers(supplier_id),
			invoice_number VARCHAR(50),
			total_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			processed_by BIGINT REFERENCES employees(employee_id) ON DELETE SET NULL,
			order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT supplier_orders_invoice_key UNIQUE (invoice_number),
			CONSTRAINT supplier_orders_status_check CHECK (status IN ('Pending', 'Processing', 'Partial', 'Waiting', 'Completed', 'Cancelled'))
		)`,

		`CREATE TABLE IF NOT EXISTS supplier_order_items (
			item_id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES supplier_orders(order_id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(product_id),
			quantity_supplied INT NOT NULL,
			unit_cost NUMERIC(12,2),
			CONSTRAINT supplier_order_items_quantity_check CHECK (quantity_supplied > 0)
		)`,

		`CREATE TABLE IF NOT EXISTS inventory_batches (
			batch_id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
			order_id BIGINT REFERENCES supplier_orders(order_id) ON DELETE SET NULL,
			quantity INT NOT NULL,
			cost_per_unit NUMERIC(12,2),
			purchase_rate NUMERIC(12,2),
			mrp NUMERIC(12,2),
			sales_rate NUMERIC(12,2),
			expiry_date DATE,
			date_received TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT inventory_batches_quantity_check CHECK (quantity >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			customer_id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(150),
			phone VARCHAR(30),
			registration_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT customers_email_key UNIQUE (email)
		)`,

		`CREATE TABLE IF NOT EXISTS sales_transactions (
			transaction_id BIGSERIAL PRIMARY KEY,
			invoice_number VARCHAR(50),
			customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
			payment_method VARCHAR(30) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			processed_by BIGINT REFERENCES employees(employee_id) ON DELETE SET NULL,
			transaction_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT sales_transactions_invoice_key UNIQUE (invoice_number)
		)`,

		`CREATE TABLE IF NOT EXISTS sales_items (
			sales_item_id BIGSERIAL PRIMARY KEY,
			transaction_id BIGINT NOT NULL REFERENCES sales_transactions(transaction_id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(product_id),
			batch_id BIGINT NOT NULL REFERENCES inventory_batches(batch_id),
			quantity_sold INT NOT NULL,
			selling_price NUMERIC(12,2) NOT NULL,
			discount NUMERIC(12,2) NOT NULL DEFAULT 0,
			line_total NUMERIC(12,2) NOT NULL,
			CONSTRAINT sales_items_quantity_check CHECK (quantity_sold > 0),
			CONSTRAINT sales_items_price_check CHECK (selling_price >= 0 AND discount >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS customer_feedback (
			feedback_id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL REFERENCES customers(customer_id) ON DELETE CASCADE,
			rating INT NOT NULL,
			comments TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT customer_feedback_rating_check CHECK (rating BETWEEN 1 AND 5)
		)`,

		`CREATE TABLE IF NOT EXISTS revoked_tokens (
			token_id VARCHAR(64) PRIMARY KEY,
			employee_id BIGINT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			revoked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(shift_date)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(attendance_date)`,
		`CREATE INDEX IF NOT EXISTS idx_leave_requests_employee ON leave_requests(employee_id, start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_payroll_period ON payroll(payroll_year, payroll_month)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_batches_product ON inventory_batches(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_supplier_orders_status ON supplier_orders(status, order_date)`,
		`CREATE INDEX IF NOT EXISTS idx_supplier_order_items_product ON supplier_order_items(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_transactions_date ON sales_transactions(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expiry ON revoked_tokens(expires_at)`,
	}
}

// Migrate applies Schema inside a single transaction
func Migrate(ctx context.Context, db *DB) error {
	return db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for i, stmt := range Schema() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}
