package repository

import (
	"github.com/activoentrena/territory-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Season    SeasonRepository
	Run       RunRepository
	Territory TerritoryRepository
	Podium    PodiumRepository
	Token     TokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Season:    NewSeasonRepository(db),
		Run:       NewRunRepository(db),
		Territory: NewTerritoryRepository(db),
		Podium:    NewPodiumRepository(db),
		Token:     NewTokenRepository(db),
	}
}
