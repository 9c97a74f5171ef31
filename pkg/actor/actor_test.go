package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	a := &Actor{EmployeeID: 42, Name: "Priya Nair", Role: "Cashier"}
	ctx := WithActor(context.Background(), a)

	got := FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.EmployeeID)
	assert.Equal(t, "Priya Nair (#42, Cashier)", got.String())
	assert.Equal(t, int64(42), *got.ProcessedBy())
}

func TestSystemActor(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	var missing *Actor
	assert.True(t, missing.IsSystem())
	assert.Nil(t, missing.ProcessedBy())
	assert.Equal(t, "system", SystemActor().String())
}
