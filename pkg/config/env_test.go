package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProductionLike(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", false},
		{"", false},
		{"staging", true},
		{"PRODUCTION", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProductionLike(tt.env))
		})
	}
}
