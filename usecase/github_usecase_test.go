package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/usecase"
)

// Mock implementations
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) ListRepos(ctx context.Context, token, etag string, opts dto.RepoListOptions) (*model.RepoList, *model.RateObservation, error) {
	args := m.Called(ctx, token, etag, opts)
	var list *model.RepoList
	if args.Get(0) != nil {
		list = args.Get(0).(*model.RepoList)
	}
	var obs *model.RateObservation
	if args.Get(1) != nil {
		obs = args.Get(1).(*model.RateObservation)
	}
	return list, obs, args.Error(2)
}

func (m *MockGitHubClient) ListCommits(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	args := m.Called(ctx, token, owner, repo, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityItem), args.Error(1)
}

func (m *MockGitHubClient) ListPulls(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	args := m.Called(ctx, token, owner, repo, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityItem), args.Error(1)
}

func (m *MockGitHubClient) ListIssuesActivity(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	args := m.Called(ctx, token, owner, repo, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityItem), args.Error(1)
}

func (m *MockGitHubClient) ListIssues(ctx context.Context, token, owner, repo string, opts dto.IssueListOptions) ([]model.Issue, *model.RateObservation, error) {
	args := m.Called(ctx, token, owner, repo, opts)
	var issues []model.Issue
	if args.Get(0) != nil {
		issues = args.Get(0).([]model.Issue)
	}
	var obs *model.RateObservation
	if args.Get(1) != nil {
		obs = args.Get(1).(*model.RateObservation)
	}
	return issues, obs, args.Error(2)
}

func (m *MockGitHubClient) GetIssue(ctx context.Context, token, owner, repo string, number int) (*model.Issue, error) {
	args := m.Called(ctx, token, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

func (m *MockGitHubClient) ListMilestones(ctx context.Context, token, owner, repo string) ([]model.Milestone, error) {
	args := m.Called(ctx, token, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Milestone), args.Error(1)
}

func (m *MockGitHubClient) CreateIssue(ctx context.Context, token, owner, repo, title, body string) (*model.Issue, error) {
	args := m.Called(ctx, token, owner, repo, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Issue), args.Error(1)
}

type MockOAuthTokenRepo struct {
	mock.Mock
}

func (m *MockOAuthTokenRepo) UpsertToken(ctx context.Context, t *model.OAuthToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockOAuthTokenRepo) GetToken(ctx context.Context, userID, platform string) (*model.OAuthToken, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthToken), args.Error(1)
}

func (m *MockOAuthTokenRepo) DeleteToken(ctx context.Context, userID, platform string) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}

type MockIntegrationStatusRepo struct {
	mock.Mock
}

func (m *MockIntegrationStatusRepo) Get(ctx context.Context, userID, platform string) (*model.IntegrationStatus, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IntegrationStatus), args.Error(1)
}

func (m *MockIntegrationStatusRepo) SetConnected(ctx context.Context, userID, platform string, connected bool) error {
	args := m.Called(ctx, userID, platform, connected)
	return args.Error(0)
}

func (m *MockIntegrationStatusRepo) RecordObservation(ctx context.Context, userID, platform string, obs *model.RateObservation, syncedAt time.Time) error {
	args := m.Called(ctx, userID, platform, obs, syncedAt)
	return args.Error(0)
}

func (m *MockIntegrationStatusRepo) RecordError(ctx context.Context, userID, platform, message string) error {
	args := m.Called(ctx, userID, platform, message)
	return args.Error(0)
}

type MockIdempotencyRepo struct {
	mock.Mock
}

func (m *MockIdempotencyRepo) Get(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepo) CreatePending(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepo) Complete(ctx context.Context, id int64, remoteRef string) error {
	args := m.Called(ctx, id, remoteRef)
	return args.Error(0)
}

func (m *MockIdempotencyRepo) DeletePending(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) SummarizeNote(ctx context.Context, title, content string) (*model.NoteSummary, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NoteSummary), args.Error(1)
}

func (m *MockLLMClient) SuggestIssue(ctx context.Context, prompt string) (string, string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.String(1), args.Error(2)
}

type MockRepoCache struct {
	mock.Mock
}

func (m *MockRepoCache) GetRepoList(ctx context.Context, userID string) (*model.RepoList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RepoList), args.Error(1)
}

func (m *MockRepoCache) SetRepoList(ctx context.Context, userID string, list *model.RepoList) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *MockRepoCache) InvalidateRepoList(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newGitHubUsecase(gh *MockGitHubClient, tokens *MockOAuthTokenRepo, status *MockIntegrationStatusRepo, idem *MockIdempotencyRepo, llm *MockLLMClient) usecase.IGitHubUsecase {
	return usecase.NewGitHubUsecase(gh, tokens, status, idem, llm, nil, usecase.GitHubOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:10001/api/github/oauth/callback",
	})
}

func newGitHubUsecaseWithCache(gh *MockGitHubClient, tokens *MockOAuthTokenRepo, status *MockIntegrationStatusRepo, idem *MockIdempotencyRepo, llm *MockLLMClient, repoCache *MockRepoCache) usecase.IGitHubUsecase {
	return usecase.NewGitHubUsecase(gh, tokens, status, idem, llm, repoCache, usecase.GitHubOAuthConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:10001/api/github/oauth/callback",
	})
}

func connectedToken() *model.OAuthToken {
	return &model.OAuthToken{UserID: "u-1", Platform: "github", AccessToken: "gho_token"}
}

func TestListRepos_NotConnected(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)
	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(nil, nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	_, err := uc.ListRepos(context.Background(), "u-1", dto.RepoListOptions{})

	assert.ErrorIs(t, err, usecase.ErrNotConnected)
	gh.AssertNotCalled(t, "ListRepos")
}

func TestListRepos_RecordsObservation(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	remaining := 4987
	obs := &model.RateObservation{Remaining: &remaining, ETag: `"abc"`}
	list := &model.RepoList{Repos: []model.Repo{{FullName: "octocat/hello"}}, ETag: `"abc"`}

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	gh.On("ListRepos", mock.Anything, "gho_token", "", dto.RepoListOptions{}).Return(list, obs, nil)
	status.On("RecordObservation", mock.Anything, "u-1", "github", obs, mock.Anything).Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	got, err := uc.ListRepos(context.Background(), "u-1", dto.RepoListOptions{})

	require.NoError(t, err)
	require.Len(t, got.Repos, 1)
	assert.False(t, got.NotModified)
	status.AssertExpectations(t)
}

func TestListRepos_NotModifiedReplaysCache(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)
	repoCache := new(MockRepoCache)

	cached := &model.RepoList{
		Repos: []model.Repo{{FullName: "octocat/hello"}, {FullName: "octocat/world"}},
		ETag:  `"abc"`,
	}
	remaining := 4986
	obs := &model.RateObservation{Remaining: &remaining}

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	repoCache.On("GetRepoList", mock.Anything, "u-1").Return(cached, nil)
	gh.On("ListRepos", mock.Anything, "gho_token", `"abc"`, dto.RepoListOptions{}).
		Return(&model.RepoList{NotModified: true}, obs, nil)
	status.On("RecordObservation", mock.Anything, "u-1", "github", obs, mock.Anything).Return(nil)

	uc := newGitHubUsecaseWithCache(gh, tokens, status, idem, llm, repoCache)
	got, err := uc.ListRepos(context.Background(), "u-1", dto.RepoListOptions{})

	require.NoError(t, err)
	assert.True(t, got.NotModified)
	require.Len(t, got.Repos, 2)
	assert.Equal(t, "octocat/hello", got.Repos[0].FullName)
	repoCache.AssertNotCalled(t, "SetRepoList", mock.Anything, mock.Anything, mock.Anything)
	status.AssertExpectations(t)
}

func TestListRepos_FreshListRefreshesCache(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)
	repoCache := new(MockRepoCache)

	fresh := &model.RepoList{Repos: []model.Repo{{FullName: "octocat/new"}}, ETag: `"def"`}

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	repoCache.On("GetRepoList", mock.Anything, "u-1").Return(nil, nil)
	gh.On("ListRepos", mock.Anything, "gho_token", "", dto.RepoListOptions{}).
		Return(fresh, nil, nil)
	repoCache.On("SetRepoList", mock.Anything, "u-1", fresh).Return(nil)

	uc := newGitHubUsecaseWithCache(gh, tokens, status, idem, llm, repoCache)
	got, err := uc.ListRepos(context.Background(), "u-1", dto.RepoListOptions{})

	require.NoError(t, err)
	assert.False(t, got.NotModified)
	repoCache.AssertExpectations(t)
}

func TestCreateIssue_Once(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	issue := &model.Issue{Number: 7, Title: "Fix flaky login"}

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(nil, nil)
	idem.On("CreatePending", mock.Anything, "u-1", "key-1").Return(&model.IdempotencyRecord{ID: 42, Status: model.IdempotencyStatusPending}, nil)
	gh.On("CreateIssue", mock.Anything, "gho_token", "octocat", "hello", "Fix flaky login", "Steps to reproduce").Return(issue, nil)
	idem.On("Complete", mock.Anything, int64(42), "octocat/hello#7").Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		Body:           "Steps to reproduce",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "octocat/hello#7", res.RemoteRef)
	assert.False(t, res.Replayed)
	assert.Equal(t, 7, res.Issue.Number)
	idem.AssertExpectations(t)
	gh.AssertNumberOfCalls(t, "CreateIssue", 1)
}

func TestCreateIssue_ReplaysCompletedKey(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	remoteRef := "octocat/hello#7"
	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(&model.IdempotencyRecord{
		ID:        42,
		Status:    model.IdempotencyStatusCompleted,
		RemoteRef: &remoteRef,
	}, nil)
	gh.On("GetIssue", mock.Anything, "gho_token", "octocat", "hello", 7).Return(&model.Issue{Number: 7, Title: "Fix flaky login"}, nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, "octocat/hello#7", res.RemoteRef)
	assert.Equal(t, 7, res.Issue.Number)
	gh.AssertNotCalled(t, "CreateIssue")
	idem.AssertNotCalled(t, "CreatePending")
}

func TestCreateIssue_PendingKeyIsInFlight(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(&model.IdempotencyRecord{ID: 42, Status: model.IdempotencyStatusPending}, nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	_, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		IdempotencyKey: "key-1",
	})

	assert.ErrorIs(t, err, usecase.ErrCreateInFlight)
	gh.AssertNotCalled(t, "CreateIssue")
}

func TestCreateIssue_LostKeyRaceIsInFlight(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(nil, nil)
	idem.On("CreatePending", mock.Anything, "u-1", "key-1").
		Return(nil, fmt.Errorf("create pending: %w", repository.ErrDuplicateKey))

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	_, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		IdempotencyKey: "key-1",
	})

	assert.ErrorIs(t, err, usecase.ErrCreateInFlight)
	gh.AssertNotCalled(t, "CreateIssue")
}

func TestCreateIssue_StoreFailurePropagates(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(nil, nil)
	idem.On("CreatePending", mock.Anything, "u-1", "key-1").Return(nil, assert.AnError)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	_, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		IdempotencyKey: "key-1",
	})

	// A store outage is not a lost race; it must not masquerade as one.
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, usecase.ErrCreateInFlight)
	gh.AssertNotCalled(t, "CreateIssue")
}

func TestCreateIssue_UpstreamFailureDropsPending(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", "key-1").Return(nil, nil)
	idem.On("CreatePending", mock.Anything, "u-1", "key-1").Return(&model.IdempotencyRecord{ID: 42, Status: model.IdempotencyStatusPending}, nil)
	gh.On("CreateIssue", mock.Anything, "gho_token", "octocat", "hello", "Fix flaky login", "").Return(nil, assert.AnError)
	idem.On("DeletePending", mock.Anything, int64(42)).Return(nil)
	status.On("RecordError", mock.Anything, "u-1", "github", mock.Anything).Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	_, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{
		Title:          "Fix flaky login",
		IdempotencyKey: "key-1",
	})

	assert.Error(t, err)
	idem.AssertCalled(t, "DeletePending", mock.Anything, int64(42))
	idem.AssertNotCalled(t, "Complete")
}

func TestCreateIssue_GeneratesKeyWhenMissing(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	nonEmpty := mock.MatchedBy(func(key string) bool { return key != "" })
	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	idem.On("Get", mock.Anything, "u-1", nonEmpty).Return(nil, nil)
	idem.On("CreatePending", mock.Anything, "u-1", nonEmpty).Return(&model.IdempotencyRecord{ID: 42}, nil)
	gh.On("CreateIssue", mock.Anything, "gho_token", "octocat", "hello", "Fix flaky login", "").Return(&model.Issue{Number: 9}, nil)
	idem.On("Complete", mock.Anything, int64(42), "octocat/hello#9").Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.CreateIssue(context.Background(), "u-1", "octocat", "hello", dto.CreateIssueRequest{Title: "Fix flaky login"})

	require.NoError(t, err)
	assert.Equal(t, "octocat/hello#9", res.RemoteRef)
	idem.AssertExpectations(t)
}

func TestListActivity_MergesNewestFirstAndTruncates(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]model.ActivityItem, 0, 6)
	for i := 0; i < 6; i++ {
		commits = append(commits, model.ActivityItem{
			ID:        "c" + string(rune('0'+i)),
			Type:      model.ActivityTypeCommit,
			CreatedAt: base.Add(-time.Duration(i*3) * time.Hour),
		})
	}
	pulls := []model.ActivityItem{
		{ID: "octocat/hello#21", Type: model.ActivityTypePullRequest, CreatedAt: base.Add(-1 * time.Hour)},
		{ID: "octocat/hello#20", Type: model.ActivityTypePullRequest, CreatedAt: base.Add(-7 * time.Hour)},
	}
	issues := []model.ActivityItem{
		{ID: "octocat/hello#22", Type: model.ActivityTypeIssue, CreatedAt: base.Add(30 * time.Minute)},
		{ID: "octocat/hello#19", Type: model.ActivityTypeIssue, CreatedAt: base.Add(-5 * time.Hour)},
		{ID: "octocat/hello#18", Type: model.ActivityTypeIssue, CreatedAt: base.Add(-20 * time.Hour)},
	}

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	gh.On("ListCommits", mock.Anything, "gho_token", "octocat", "hello", 10).Return(commits, nil)
	gh.On("ListPulls", mock.Anything, "gho_token", "octocat", "hello", 10).Return(pulls, nil)
	gh.On("ListIssuesActivity", mock.Anything, "gho_token", "octocat", "hello", 10).Return(issues, nil)
	status.On("RecordObservation", mock.Anything, "u-1", "github", mock.Anything, mock.Anything).Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.ListActivity(context.Background(), "u-1", "octocat", "hello")

	require.NoError(t, err)
	assert.Equal(t, "octocat/hello", res.RepoName)
	require.Len(t, res.Items, 10)
	for i := 1; i < len(res.Items); i++ {
		assert.False(t, res.Items[i].CreatedAt.After(res.Items[i-1].CreatedAt), "items must be newest first")
	}
	assert.Equal(t, "octocat/hello#22", res.Items[0].ID)
}

func TestListActivity_FailsWholeOnSubFetchError(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(connectedToken(), nil)
	gh.On("ListCommits", mock.Anything, "gho_token", "octocat", "hello", 10).Return([]model.ActivityItem{{ID: "c1"}}, nil)
	gh.On("ListPulls", mock.Anything, "gho_token", "octocat", "hello", 10).Return(nil, assert.AnError)
	gh.On("ListIssuesActivity", mock.Anything, "gho_token", "octocat", "hello", 10).Return([]model.ActivityItem{}, nil)
	status.On("RecordError", mock.Anything, "u-1", "github", mock.Anything).Return(nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.ListActivity(context.Background(), "u-1", "octocat", "hello")

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestStatus_Disconnected(t *testing.T) {
	gh := new(MockGitHubClient)
	tokens := new(MockOAuthTokenRepo)
	status := new(MockIntegrationStatusRepo)
	idem := new(MockIdempotencyRepo)
	llm := new(MockLLMClient)

	tokens.On("GetToken", mock.Anything, "u-1", "github").Return(nil, nil)
	status.On("Get", mock.Anything, "u-1", "github").Return(nil, nil)

	uc := newGitHubUsecase(gh, tokens, status, idem, llm)
	res, err := uc.Status(context.Background(), "u-1")

	require.NoError(t, err)
	assert.False(t, res.Connected)
	assert.Nil(t, res.LastSyncAt)
}
