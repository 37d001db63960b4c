// File: internal/profile/model_test.go
package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsOnboarding(t *testing.T) {
	loc := &Location{CityID: "seattle", CityName: "Seattle"}

	tests := []struct {
		name string
		p    *Profile
		want bool
	}{
		{name: "nil profile", p: nil, want: true},
		{name: "no location, flag false", p: &Profile{}, want: true},
		{name: "no location, flag true", p: &Profile{HasCompletedOnboarding: true}, want: true},
		{name: "location saved, flag false", p: &Profile{Location: loc}, want: true},
		{name: "location saved, flag true", p: &Profile{Location: loc, HasCompletedOnboarding: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsOnboarding(tt.p))
		})
	}
}

func TestFromDoc(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	saved := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

	t.Run("full document", func(t *testing.T) {
		doc := map[string]interface{}{
			"displayName":            "Ada",
			"email":                  "ada@example.com",
			"createdAt":              created,
			"lastLoginAt":            created,
			"hasCompletedOnboarding": true,
			"location": map[string]interface{}{
				"cityId":    "seattle",
				"cityName":  "Seattle",
				"state":     "WA",
				"country":   "USA",
				"latitude":  47.6062,
				"longitude": -122.3321,
				"savedAt":   saved,
			},
		}

		p, hasFlag := fromDoc(doc)
		require.True(t, hasFlag)
		assert.Equal(t, "Ada", p.DisplayName)
		assert.Equal(t, "ada@example.com", p.Email)
		assert.Equal(t, created, p.CreatedAt)
		assert.True(t, p.HasCompletedOnboarding)
		require.NotNil(t, p.Location)
		assert.Equal(t, "seattle", p.Location.CityID)
		assert.Equal(t, "WA", p.Location.State)
		assert.InDelta(t, 47.6062, p.Location.Latitude, 0.0001)
		assert.Equal(t, saved, p.Location.SavedAt)
	})

	t.Run("legacy document without onboarding flag", func(t *testing.T) {
		doc := map[string]interface{}{
			"displayName": "Grace",
			"email":       "grace@example.com",
		}

		p, hasFlag := fromDoc(doc)
		assert.False(t, hasFlag)
		assert.False(t, p.HasCompletedOnboarding)
		assert.Nil(t, p.Location)
	})

	t.Run("integer coordinates decode as floats", func(t *testing.T) {
		doc := map[string]interface{}{
			"hasCompletedOnboarding": false,
			"location": map[string]interface{}{
				"cityId":   "tacoma",
				"latitude": int64(47),
			},
		}

		p, hasFlag := fromDoc(doc)
		require.True(t, hasFlag)
		require.NotNil(t, p.Location)
		assert.Equal(t, float64(47), p.Location.Latitude)
	})
}
