package domain

import "time"

// User represents a player in the system. The four strava_* columns form
// the third-party OAuth credential and are present together or all absent.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	StravaAthleteID      *int64  `json:"-" db:"strava_athlete_id"`
	StravaAccessToken    *string `json:"-" db:"strava_access_token"`
	StravaRefreshToken   *string `json:"-" db:"strava_refresh_token"`
	StravaTokenExpiresAt *int64  `json:"-" db:"strava_token_expires_at"`
}

// IsStravaConnected reports whether the user has linked a Strava account.
func (u *User) IsStravaConnected() bool {
	return u.StravaAthleteID != nil
}

// StravaCredential is the token triple plus athlete identifier returned by
// a token exchange. Stored atomically as one unit.
type StravaCredential struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // unix epoch seconds
}
