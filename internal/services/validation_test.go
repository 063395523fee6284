package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productsvc/internal/models"
	"productsvc/internal/services"
)

func ptr[T any](v T) *T { return &v }

func TestValidateProductInput(t *testing.T) {
	tests := []struct {
		name   string
		input  models.ProductInput
		fields map[string]string
	}{
		{
			name:  "valid with all fields",
			input: models.ProductInput{Name: "Widget", Price: ptr(9.99), Description: ptr(""), InStock: ptr(true)},
		},
		{
			name:  "valid with zero price",
			input: models.ProductInput{Name: "Freebie", Price: ptr(0.0)},
		},
		{
			name:   "missing name",
			input:  models.ProductInput{Price: ptr(1.0)},
			fields: map[string]string{"name": "name is required"},
		},
		{
			name:   "missing price",
			input:  models.ProductInput{Name: "Widget"},
			fields: map[string]string{"price": "price is required"},
		},
		{
			name:  "missing both",
			input: models.ProductInput{},
			fields: map[string]string{
				"name":  "name is required",
				"price": "price is required",
			},
		},
		{
			name:   "negative price",
			input:  models.ProductInput{Name: "Widget", Price: ptr(-1.0)},
			fields: map[string]string{"price": "price must be greater than or equal to 0"},
		},
		{
			name:   "name too long",
			input:  models.ProductInput{Name: strings.Repeat("x", 201), Price: ptr(1.0)},
			fields: map[string]string{"name": "name must be at most 200 characters"},
		},
		{
			name:   "description too long",
			input:  models.ProductInput{Name: "Widget", Price: ptr(1.0), Description: ptr(strings.Repeat("x", 2001))},
			fields: map[string]string{"description": "description must be at most 2000 characters"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := services.ValidateProductInput(tc.input)
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}

			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.fields, vErr.Fields)
		})
	}
}
