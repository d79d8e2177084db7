package domain

// PodiumEntry is one frozen top-3 row for a closed season. Written exactly
// once per season and category by the closure job; immutable thereafter.
type PodiumEntry struct {
	SeasonID   int64   `json:"season_id" db:"season_id"`
	UserID     string  `json:"user_id" db:"user_id"`
	Category   Metric  `json:"category" db:"category"`
	Rank       int     `json:"rank" db:"rank"`
	FinalScore float64 `json:"final_score" db:"final_score"`
}

// Champion is a podium row joined with its user, as shown in the
// hall-of-fame history.
type Champion struct {
	Category Metric  `json:"category"`
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// SeasonPodium groups a closed season's champions, newest season first.
type SeasonPodium struct {
	SeasonName string     `json:"season_name"`
	EndDate    string     `json:"end_date"`
	Champions  []Champion `json:"champions"`
}

// LeaderboardEntry is one row of the live season ranking.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Value    float64 `json:"value"`
}
