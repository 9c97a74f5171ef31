package repository

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Run("empty filter has no where clause", func(t *testing.T) {
		var f Filter
		assert.Equal(t, "", f.Where())
		assert.Empty(t, f.Args())
	})

	t.Run("matchers are numbered in order", func(t *testing.T) {
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		var f Filter
		f.In("o.status", []string{"Pending", "Waiting"}).
			Contains("acme", "s.supplier_name", "s.email").
			Gte("o.order_date", from).
			Eq("o.supplier_id", int64(4))

		assert.Equal(t,
			" WHERE o.status = ANY($1) AND (s.supplier_name ILIKE $2 OR s.email ILIKE $2) AND o.order_date >= $3 AND o.supplier_id = $4",
			f.Where())
		assert.Equal(t, []interface{}{pq.Array([]string{"Pending", "Waiting"}), "%acme%", from, int64(4)}, f.Args())
	})

	t.Run("like wildcards in input are escaped", func(t *testing.T) {
		var f Filter
		f.Contains("50%_off", "p.product_name")
		assert.Equal(t, []interface{}{`%50\%\_off%`}, f.Args())
	})
}
