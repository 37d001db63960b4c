// File: internal/profile/model.go
package profile

import (
	"time"
)

// Firestore field names, shared with the mobile clients.
const (
	fieldDisplayName    = "displayName"
	fieldEmail          = "email"
	fieldCreatedAt      = "createdAt"
	fieldLastLoginAt    = "lastLoginAt"
	fieldOnboardingDone = "hasCompletedOnboarding"
	fieldLocation       = "location"

	fieldCityID    = "cityId"
	fieldCityName  = "cityName"
	fieldState     = "state"
	fieldCountry   = "country"
	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"
	fieldSavedAt   = "savedAt"
)

// Location is the saved city on a user profile.
type Location struct {
	CityID    string    `json:"city_id"`
	CityName  string    `json:"city_name"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SavedAt   time.Time `json:"saved_at"`
}

// Profile is the durable per-user record, one document per user keyed by the
// identity provider's user id.
type Profile struct {
	DisplayName            string    `json:"display_name"`
	Email                  string    `json:"email"`
	CreatedAt              time.Time `json:"created_at"`
	LastLoginAt            time.Time `json:"last_login_at"`
	HasCompletedOnboarding bool      `json:"has_completed_onboarding"`
	Location               *Location `json:"location,omitempty"`
}

// NeedsOnboarding reports whether the user must complete the location
// onboarding flow: true when no location is saved or the onboarding flag is
// false or absent.
func NeedsOnboarding(p *Profile) bool {
	if p == nil {
		return true
	}
	return p.Location == nil || !p.HasCompletedOnboarding
}

// fromDoc decodes a raw document into a Profile. hasFlag reports whether the
// document carried the hasCompletedOnboarding field at all; legacy records
// created before the field existed do not.
func fromDoc(doc map[string]interface{}) (p *Profile, hasFlag bool) {
	p = &Profile{
		DisplayName: stringField(doc, fieldDisplayName),
		Email:       stringField(doc, fieldEmail),
		CreatedAt:   timeField(doc, fieldCreatedAt),
		LastLoginAt: timeField(doc, fieldLastLoginAt),
	}

	if v, ok := doc[fieldOnboardingDone]; ok {
		hasFlag = true
		if b, ok := v.(bool); ok {
			p.HasCompletedOnboarding = b
		}
	}

	if raw, ok := doc[fieldLocation].(map[string]interface{}); ok {
		p.Location = &Location{
			CityID:    stringField(raw, fieldCityID),
			CityName:  stringField(raw, fieldCityName),
			State:     stringField(raw, fieldState),
			Country:   stringField(raw, fieldCountry),
			Latitude:  floatField(raw, fieldLatitude),
			Longitude: floatField(raw, fieldLongitude),
			SavedAt:   timeField(raw, fieldSavedAt),
		}
	}

	return p, hasFlag
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func floatField(doc map[string]interface{}, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func timeField(doc map[string]interface{}, key string) time.Time {
	if v, ok := doc[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}
