package models

import (
	"time"

	"github.com/google/uuid"
)

// Match pairs a home and away team on a date. The triple is unique.
type Match struct {
	ID         uuid.UUID `json:"id" db:"id"`
	HomeTeamID uuid.UUID `json:"home_team_id" db:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id" db:"away_team_id"`
	PlayedOn   time.Time `json:"played_on" db:"played_on"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Goal struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MatchID   uuid.UUID `json:"match_id" db:"match_id"`
	TeamID    uuid.UUID `json:"team_id" db:"team_id"`
	ScorerID  uuid.UUID `json:"scorer_id" db:"scorer_id"`
	Minute    int       `json:"minute" db:"minute"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Assist struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GoalID      uuid.UUID `json:"goal_id" db:"goal_id"`
	AssistantID uuid.UUID `json:"assistant_id" db:"assistant_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Card colors accepted by validation.
const (
	CardYellow = "yellow"
	CardRed    = "red"
)

type Card struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MatchID   uuid.UUID `json:"match_id" db:"match_id"`
	PlayerID  uuid.UUID `json:"player_id" db:"player_id"`
	Color     string    `json:"color" db:"color"`
	Minute    int       `json:"minute" db:"minute"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
