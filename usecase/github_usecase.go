package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
	"golang.org/x/sync/errgroup"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
	"command-center/infrastructure/utils"
)

const platformGitHub = "github"

// activityLimit caps the merged activity feed.
const activityLimit = 10

var (
	// ErrNotConnected means the user has no stored token for the platform.
	ErrNotConnected = errors.New("github integration not connected")
	// ErrCreateInFlight means another request with the same idempotency key
	// has not finished yet.
	ErrCreateInFlight = errors.New("issue creation already in flight")
)

type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type IGitHubUsecase interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, userID, code string) error
	Disconnect(ctx context.Context, userID string) error
	Status(ctx context.Context, userID string) (*dto.IntegrationStatusResponse, error)
	ListRepos(ctx context.Context, userID string, opts dto.RepoListOptions) (*model.RepoList, error)
	ListIssues(ctx context.Context, userID, owner, repo string, opts dto.IssueListOptions) ([]model.Issue, error)
	GetIssue(ctx context.Context, userID, owner, repo string, number int) (*model.Issue, error)
	ListMilestones(ctx context.Context, userID, owner, repo string) ([]model.Milestone, error)
	CreateIssue(ctx context.Context, userID, owner, repo string, req dto.CreateIssueRequest) (*dto.CreateIssueResponse, error)
	ListActivity(ctx context.Context, userID, owner, repo string) (*dto.ActivityResponse, error)
	SuggestIssue(ctx context.Context, prompt string) (string, string, error)
}

type githubUsecase struct {
	githubRepo  repository.IGitHub
	tokenRepo   repository.IOAuthToken
	statusRepo  repository.IIntegrationStatus
	idemRepo    repository.IIdempotency
	llm         repository.ILLM
	repoCache   repository.IRepoCache
	oauthConfig *oauth2.Config
}

func NewGitHubUsecase(
	githubRepo repository.IGitHub,
	tokenRepo repository.IOAuthToken,
	statusRepo repository.IIntegrationStatus,
	idemRepo repository.IIdempotency,
	llm repository.ILLM,
	repoCache repository.IRepoCache,
	oauthCfg GitHubOAuthConfig,
) IGitHubUsecase {
	return &githubUsecase{
		githubRepo: githubRepo,
		tokenRepo:  tokenRepo,
		statusRepo: statusRepo,
		idemRepo:   idemRepo,
		llm:        llm,
		repoCache:  repoCache,
		oauthConfig: &oauth2.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURI,
			Scopes:       []string{"repo", "read:user"},
			Endpoint:     oauthgithub.Endpoint,
		},
	}
}

func (u *githubUsecase) AuthURL(state string) string {
	return u.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode trades the authorization code for a token and stores it. One
// row per (user, platform); reconnecting replaces the previous token.
func (u *githubUsecase) ExchangeCode(ctx context.Context, userID, code string) error {
	token, err := u.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("GitHub code exchange failed")
		_ = u.statusRepo.RecordError(ctx, userID, platformGitHub, "code exchange failed")
		return fmt.Errorf("exchange code: %w", err)
	}

	tok := &model.OAuthToken{
		UserID:       userID,
		Platform:     platformGitHub,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       strings.Join(u.oauthConfig.Scopes, ","),
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		tok.ExpiresAt = &expiry
	}
	if token.TokenType != "" {
		tokenType := token.TokenType
		tok.TokenType = &tokenType
	}
	if err := u.tokenRepo.UpsertToken(ctx, tok); err != nil {
		return err
	}
	return u.statusRepo.SetConnected(ctx, userID, platformGitHub, true)
}

func (u *githubUsecase) Disconnect(ctx context.Context, userID string) error {
	if err := u.tokenRepo.DeleteToken(ctx, userID, platformGitHub); err != nil {
		return err
	}
	if u.repoCache != nil {
		_ = u.repoCache.InvalidateRepoList(ctx, userID)
	}
	return u.statusRepo.SetConnected(ctx, userID, platformGitHub, false)
}

func (u *githubUsecase) Status(ctx context.Context, userID string) (*dto.IntegrationStatusResponse, error) {
	tok, err := u.tokenRepo.GetToken(ctx, userID, platformGitHub)
	if err != nil {
		return nil, err
	}
	res := &dto.IntegrationStatusResponse{Connected: tok != nil && tok.AccessToken != ""}

	status, err := u.statusRepo.Get(ctx, userID, platformGitHub)
	if err != nil {
		return nil, err
	}
	if status != nil {
		res.LastSyncAt = status.LastSyncAt
		res.RateRemaining = status.RateRemaining
		res.RateResetAt = status.RateResetAt
		res.LastError = status.LastError
	}
	return res, nil
}

// accessToken fetches the stored token or fails with ErrNotConnected.
func (u *githubUsecase) accessToken(ctx context.Context, userID string) (string, error) {
	tok, err := u.tokenRepo.GetToken(ctx, userID, platformGitHub)
	if err != nil {
		return "", err
	}
	if tok == nil || tok.AccessToken == "" {
		return "", ErrNotConnected
	}
	return tok.AccessToken, nil
}

// observe is the single write path for rate-limit metadata.
func (u *githubUsecase) observe(ctx context.Context, userID string, obs *model.RateObservation) {
	if obs == nil {
		return
	}
	if err := u.statusRepo.RecordObservation(ctx, userID, platformGitHub, obs, utils.GetCurrentTime()); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to record rate observation")
	}
}

func (u *githubUsecase) ListRepos(ctx context.Context, userID string, opts dto.RepoListOptions) (*model.RepoList, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	var cached *model.RepoList
	etag := ""
	if u.repoCache != nil {
		cached, _ = u.repoCache.GetRepoList(ctx, userID)
		if cached != nil {
			etag = cached.ETag
		}
	}

	list, obs, err := u.githubRepo.ListRepos(ctx, token, etag, opts)
	u.observe(ctx, userID, obs)
	if err != nil {
		_ = u.statusRepo.RecordError(ctx, userID, platformGitHub, err.Error())
		return nil, err
	}

	if list.NotModified {
		if cached != nil {
			cached.NotModified = true
			return cached, nil
		}
		// 304 without a cached copy; return the empty not-modified marker.
		return list, nil
	}

	if u.repoCache != nil {
		_ = u.repoCache.SetRepoList(ctx, userID, list)
	}
	return list, nil
}

func (u *githubUsecase) ListIssues(ctx context.Context, userID, owner, repo string, opts dto.IssueListOptions) ([]model.Issue, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	issues, obs, err := u.githubRepo.ListIssues(ctx, token, owner, repo, opts)
	u.observe(ctx, userID, obs)
	if err != nil {
		_ = u.statusRepo.RecordError(ctx, userID, platformGitHub, err.Error())
		return nil, err
	}
	return issues, nil
}

func (u *githubUsecase) GetIssue(ctx context.Context, userID, owner, repo string, number int) (*model.Issue, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.githubRepo.GetIssue(ctx, token, owner, repo, number)
}

func (u *githubUsecase) ListMilestones(ctx context.Context, userID, owner, repo string) ([]model.Milestone, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.githubRepo.ListMilestones(ctx, token, owner, repo)
}

// CreateIssue creates an upstream issue exactly once per idempotency key.
// A missing key gets a server-generated UUID. The pending record is written
// before the upstream call so a concurrent duplicate sees it and backs off.
func (u *githubUsecase) CreateIssue(ctx context.Context, userID, owner, repo string, req dto.CreateIssueRequest) (*dto.CreateIssueResponse, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	rec, err := u.idemRepo.Get(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if rec.Status == model.IdempotencyStatusPending {
			return nil, ErrCreateInFlight
		}
		// Completed: replay from the stored remote ref without touching
		// upstream write quota.
		res := &dto.CreateIssueResponse{Replayed: true}
		if rec.RemoteRef != nil {
			res.RemoteRef = *rec.RemoteRef
			if refOwner, refRepo, number, ok := parseRemoteRef(*rec.RemoteRef); ok {
				if issue, err := u.githubRepo.GetIssue(ctx, token, refOwner, refRepo, number); err == nil {
					res.Issue = issue
				}
			}
		}
		return res, nil
	}

	pending, err := u.idemRepo.CreatePending(ctx, userID, key)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent request won the race for this key.
			return nil, ErrCreateInFlight
		}
		return nil, err
	}

	issue, err := u.githubRepo.CreateIssue(ctx, token, owner, repo, req.Title, req.Body)
	if err != nil {
		// Upstream refused or timed out. Drop the pending record so the
		// client can retry with the same key.
		_ = u.idemRepo.DeletePending(ctx, pending.ID)
		_ = u.statusRepo.RecordError(ctx, userID, platformGitHub, err.Error())
		return nil, err
	}

	remoteRef := fmt.Sprintf("%s/%s#%d", owner, repo, issue.Number)
	if err := u.idemRepo.Complete(ctx, pending.ID, remoteRef); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to complete idempotency record")
	}
	return &dto.CreateIssueResponse{Issue: issue, RemoteRef: remoteRef}, nil
}

// ListActivity fans out to commits, pull requests and issues, merges them
// newest first and truncates. Any sub-fetch failure fails the whole call so a
// partial feed is never presented as complete.
func (u *githubUsecase) ListActivity(ctx context.Context, userID, owner, repo string) (*dto.ActivityResponse, error) {
	token, err := u.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	var commits, pulls, issues []model.ActivityItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commits, err = u.githubRepo.ListCommits(gctx, token, owner, repo, activityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		pulls, err = u.githubRepo.ListPulls(gctx, token, owner, repo, activityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		issues, err = u.githubRepo.ListIssuesActivity(gctx, token, owner, repo, activityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = u.statusRepo.RecordError(ctx, userID, platformGitHub, err.Error())
		return nil, err
	}

	items := make([]model.ActivityItem, 0, len(commits)+len(pulls)+len(issues))
	items = append(items, commits...)
	items = append(items, pulls...)
	items = append(items, issues...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > activityLimit {
		items = items[:activityLimit]
	}

	u.observe(ctx, userID, &model.RateObservation{})
	return &dto.ActivityResponse{
		RepoName: fmt.Sprintf("%s/%s", owner, repo),
		Items:    items,
	}, nil
}

func (u *githubUsecase) SuggestIssue(ctx context.Context, prompt string) (string, string, error) {
	return u.llm.SuggestIssue(ctx, prompt)
}

// parseRemoteRef splits "owner/repo#number".
func parseRemoteRef(ref string) (owner, repo string, number int, ok bool) {
	hash := strings.LastIndexByte(ref, '#')
	if hash < 0 {
		return "", "", 0, false
	}
	n, err := strconv.Atoi(ref[hash+1:])
	if err != nil {
		return "", "", 0, false
	}
	parts := strings.SplitN(ref[:hash], "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, false
	}
	return parts[0], parts[1], n, true
}
