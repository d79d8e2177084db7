package service

import (
	"context"
	"fmt"
	"time"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/repository"
	"github.com/activoentrena/territory-service/internal/strava"
)

type fakeSeasonRepo struct {
	active      *domain.Season
	activeErr   error
	pending     []*domain.Season
	pendingErr  error
	deactivated []int64
}

func (f *fakeSeasonRepo) ResolveActive(ctx context.Context, on time.Time) (*domain.Season, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func (f *fakeSeasonRepo) GetByID(ctx context.Context, id int64) (*domain.Season, error) {
	if f.active != nil && f.active.ID == id {
		return f.active, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSeasonRepo) PendingClosures(ctx context.Context) ([]*domain.Season, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakeSeasonRepo) Deactivate(ctx context.Context, q repository.DBTX, id int64) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeRunRepo struct {
	insertErr    error
	insertedWKT  string
	insertedRuns []*domain.Run
	distance     float64

	existing  map[string]bool
	existsErr error

	history    []domain.RunView
	historyErr error

	totalDistance  float64
	totalElevation float64
	runCount       int

	totals    []domain.UserTotal
	totalsErr error
}

func (f *fakeRunRepo) Insert(ctx context.Context, q repository.DBTX, run *domain.Run, lineWKT string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	run.ID = "run-1"
	run.DistanceMeters = f.distance
	f.insertedWKT = lineWKT
	f.insertedRuns = append(f.insertedRuns, run)
	return nil
}

func (f *fakeRunRepo) ExistsByStravaID(ctx context.Context, userID, stravaID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[userID+"/"+stravaID], nil
}

func (f *fakeRunRepo) History(ctx context.Context, userID string, seasonID int64, limit int) ([]domain.RunView, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeRunRepo) SeasonTotals(ctx context.Context, userID string, seasonID int64) (float64, float64, int, error) {
	return f.totalDistance, f.totalElevation, f.runCount, nil
}

func (f *fakeRunRepo) SumByUser(ctx context.Context, seasonID int64, metric domain.Metric, limit int) ([]domain.UserTotal, error) {
	if f.totalsErr != nil {
		return nil, f.totalsErr
	}
	return f.totals, nil
}

type fakeTerritoryRepo struct {
	mergeArea  float64
	mergeErr   error
	mergedWKT  string
	mergeCalls int

	views []domain.TerritoryView
	area  float64
}

func (f *fakeTerritoryRepo) MergeClosedLoop(ctx context.Context, q repository.DBTX, userID string, seasonID int64, ringWKT string) (float64, error) {
	f.mergeCalls++
	if f.mergeErr != nil {
		return 0, f.mergeErr
	}
	f.mergedWKT = ringWKT
	return f.mergeArea, nil
}

func (f *fakeTerritoryRepo) ListBySeason(ctx context.Context, seasonID int64) ([]domain.TerritoryView, error) {
	return f.views, nil
}

func (f *fakeTerritoryRepo) AreaByUser(ctx context.Context, userID string, seasonID int64) (float64, error) {
	return f.area, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User

	storedCred   *domain.StravaCredential
	storedUserID string

	swapResult bool
	swapErr    error
	swapCalls  int
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = "user-1"
	if f.users == nil {
		f.users = map[string]*domain.User{}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetStravaCredential(ctx context.Context, userID string, cred domain.StravaCredential) error {
	f.storedUserID = userID
	f.storedCred = &cred
	return nil
}

func (f *fakeUserRepo) CompareAndSwapStravaTokens(ctx context.Context, userID, previousRefreshToken, accessToken, refreshToken string, expiresAt int64) (bool, error) {
	f.swapCalls++
	if f.swapErr != nil {
		return false, f.swapErr
	}
	if f.swapResult {
		u := f.users[userID]
		u.StravaAccessToken = &accessToken
		u.StravaRefreshToken = &refreshToken
		u.StravaTokenExpiresAt = &expiresAt
	}
	return f.swapResult, nil
}

type fakePodiumRepo struct {
	inserted   []string
	failSeason int64
	insertErr  error
	podiums    []domain.SeasonPodium
}

func (f *fakePodiumRepo) InsertTopThree(ctx context.Context, q repository.DBTX, seasonID int64, category domain.Metric) error {
	if f.insertErr != nil && (f.failSeason == 0 || f.failSeason == seasonID) {
		return f.insertErr
	}
	f.inserted = append(f.inserted, fmt.Sprintf("%d/%s", seasonID, category))
	return nil
}

func (f *fakePodiumRepo) History(ctx context.Context) ([]domain.SeasonPodium, error) {
	return f.podiums, nil
}

type fakeStravaAPI struct {
	authorizeURL string

	exchangeToken *strava.TokenResponse
	exchangeErr   error

	refreshToken *strava.TokenResponse
	refreshErr   error

	activity    *strava.Activity
	activityErr error

	stream       [][2]float64
	streamErr    error
	streamCalls  int
	usedAccessTk string
}

func (f *fakeStravaAPI) AuthorizeURL(redirectURI, state string) string {
	return f.authorizeURL + "?state=" + state
}

func (f *fakeStravaAPI) ExchangeCode(ctx context.Context, code string) (*strava.TokenResponse, error) {
	return f.exchangeToken, f.exchangeErr
}

func (f *fakeStravaAPI) RefreshToken(ctx context.Context, refreshToken string) (*strava.TokenResponse, error) {
	return f.refreshToken, f.refreshErr
}

func (f *fakeStravaAPI) LatestActivity(ctx context.Context, accessToken string) (*strava.Activity, error) {
	f.usedAccessTk = accessToken
	return f.activity, f.activityErr
}

func (f *fakeStravaAPI) LatLngStream(ctx context.Context, accessToken string, activityID int64) ([][2]float64, error) {
	f.streamCalls++
	return f.stream, f.streamErr
}
