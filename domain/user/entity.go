package user

import (
	"encoding/json"
	"time"
)

// Subscription status values.
const (
	SubscriptionFree   = "free"
	SubscriptionActive = "active"
)

// User represents a user account with onboarding profile and billing info.
type User struct {
	ID                   string `gorm:"primaryKey;type:text"`
	Email                string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash         string `gorm:"not null;type:text"`
	FirstName            string `gorm:"type:text"`
	LastName             string `gorm:"type:text"`
	SubscriptionStatus   string `gorm:"type:text;default:free"`
	StripeCustomerID     string `gorm:"type:text"`
	StripeSubscriptionID string `gorm:"type:text"`
	// Onboarding profile. Interests is a JSON-encoded string list.
	Interests           string `gorm:"type:text"`
	LifeGoal            string `gorm:"type:text"`
	DailyFreeTime       int
	Age                 int
	Gender              string `gorm:"type:text"`
	OnboardingCompleted bool
	// Gamified productivity counters. Score starts at 100; the streak
	// counts distinct local days with at least one scored action.
	ProductivityScore  int `gorm:"default:100"`
	ProductivityStreak int
	LastActivityDate   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Gender values accepted during onboarding.
var Genders = []string{"male", "female", "non-binary", "prefer-not-to-say", "custom"}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// InterestList decodes the JSON-encoded interests column.
// A missing or malformed column yields an empty list.
func (u *User) InterestList() []string {
	if u.Interests == "" {
		return nil
	}
	var interests []string
	if err := json.Unmarshal([]byte(u.Interests), &interests); err != nil {
		return nil
	}
	return interests
}

// SetInterestList encodes interests into the JSON column.
func (u *User) SetInterestList(interests []string) {
	data, err := json.Marshal(interests)
	if err != nil {
		u.Interests = "[]"
		return
	}
	u.Interests = string(data)
}

// DisplayName returns the user's first name, falling back to the
// local part of the email.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	for i, c := range u.Email {
		if c == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims represents the authenticated identity attached to a request.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
