package service

import (
	"context"
	"fmt"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/repository"
)

// refreshExpiryMargin is how close to expiry a stored access token is
// still considered usable. A token inside the margin is refreshed before
// use so it cannot expire mid-request.
const refreshExpiryMargin = 60 * time.Second

// stravaConnectService implements StravaConnectService interface
type stravaConnectService struct {
	userRepo    repository.UserRepository
	client      StravaAPI
	redirectURI string
	now         func() time.Time
}

// NewStravaConnectService creates a new Strava connect service
func NewStravaConnectService(userRepo repository.UserRepository, client StravaAPI, redirectURI string) StravaConnectService {
	return &stravaConnectService{
		userRepo:    userRepo,
		client:      client,
		redirectURI: redirectURI,
		now:         time.Now,
	}
}

// AuthorizationURL builds the platform redirect for account linking
func (s *stravaConnectService) AuthorizationURL(userID string) string {
	return s.client.AuthorizeURL(s.redirectURI, userID)
}

// CompleteAuthorization exchanges the callback code and stores the
// resulting credential on the user
func (s *stravaConnectService) CompleteAuthorization(ctx context.Context, userID, code string) error {
	token, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExchangeFailed, err)
	}

	cred := domain.StravaCredential{
		AthleteID:    token.Athlete.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
	}

	if err := s.userRepo.SetStravaCredential(ctx, userID, cred); err != nil {
		return fmt.Errorf("failed to store strava credential: %w", err)
	}

	return nil
}

// ValidAccessToken returns an access token with at least the expiry margin
// remaining, refreshing the stored triple when needed. Concurrent
// refreshes for the same user are resolved by a compare-and-swap on the
// stored refresh token; the loser re-reads the winner's credential.
func (s *stravaConnectService) ValidAccessToken(ctx context.Context, user *domain.User) (string, error) {
	if !user.IsStravaConnected() {
		return "", domain.ErrNotConnected
	}

	if user.StravaAccessToken != nil && user.StravaTokenExpiresAt != nil {
		if s.now().Unix() < *user.StravaTokenExpiresAt-int64(refreshExpiryMargin.Seconds()) {
			return *user.StravaAccessToken, nil
		}
	}

	if user.StravaRefreshToken == nil {
		return "", domain.ErrNotConnected
	}
	previousRefresh := *user.StravaRefreshToken

	token, err := s.client.RefreshToken(ctx, previousRefresh)
	if err != nil {
		// Stored credentials stay untouched so a later attempt can retry.
		return "", fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}

	swapped, err := s.userRepo.CompareAndSwapStravaTokens(ctx, user.ID, previousRefresh, token.AccessToken, token.RefreshToken, token.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to store refreshed tokens: %w", err)
	}
	if swapped {
		return token.AccessToken, nil
	}

	// A concurrent refresh won the race; use the credential it stored.
	fresh, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to reload user after refresh race: %w", err)
	}
	if fresh.StravaAccessToken == nil {
		return "", domain.ErrNotConnected
	}
	return *fresh.StravaAccessToken, nil
}
