package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type plotPayload struct {
	PlotNumber string  `json:"plot_number"`
	Area       float64 `json:"area"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    plotPayload
		expectError bool
	}{
		{
			name:     "wrapped under resource key",
			key:      "booking",
			body:     `{"booking": {"plot_number": "A-101", "area": 120.5}}`,
			expected: plotPayload{PlotNumber: "A-101", Area: 120.5},
		},
		{
			name:     "flat body",
			key:      "booking",
			body:     `{"plot_number": "B-07", "area": 90}`,
			expected: plotPayload{PlotNumber: "B-07", Area: 90},
		},
		{
			name:     "key absent falls back to flat",
			key:      "booking",
			body:     `{"other": "x", "plot_number": "C-12", "area": 200}`,
			expected: plotPayload{PlotNumber: "C-12", Area: 200},
		},
		{
			name:     "different resource key",
			key:      "project",
			body:     `{"project": {"plot_number": "D-01", "area": 75}}`,
			expected: plotPayload{PlotNumber: "D-01", Area: 75},
		},
		{
			name:        "flat body with wrong field type",
			key:         "booking",
			body:        `{"plot_number": "E-20", "area": "wide"}`,
			expectError: true,
		},
		{
			name:        "wrapped body with wrong field type",
			key:         "booking",
			body:        `{"booking": {"plot_number": "E-20", "area": "wide"}}`,
			expectError: true,
		},
		{
			name:        "key present but not an object",
			key:         "booking",
			body:        `{"booking": "A-101"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var got plotPayload
			err := BindNestedOrFlat(c, tt.key, &got)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestBindNestedOrFlatRewindsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"plot_number": "A-101", "area": 50}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var first, second plotPayload
	assert.NoError(t, BindNestedOrFlat(c, "booking", &first))
	assert.NoError(t, BindNestedOrFlat(c, "booking", &second))
	assert.Equal(t, first, second)
}
