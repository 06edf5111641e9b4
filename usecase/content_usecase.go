package usecase

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
)

var ErrContentNotFound = errors.New("content item not found")

const (
	ideaStatusBacklog = "backlog"
	draftStatusDraft  = "draft"
)

type IContentUsecase interface {
	CreateIdea(ctx context.Context, userID string, req dto.IdeaRequest) (*model.Idea, error)
	ListIdeas(ctx context.Context, userID string) ([]model.Idea, error)
	UpdateIdea(ctx context.Context, userID string, id int64, req dto.IdeaRequest) (*model.Idea, error)
	DeleteIdea(ctx context.Context, userID string, id int64) error

	CreateDraft(ctx context.Context, userID string, req dto.DraftRequest) (*model.ContentDraft, error)
	ListDrafts(ctx context.Context, userID string) ([]model.ContentDraft, error)
	UpdateDraft(ctx context.Context, userID string, id int64, req dto.DraftRequest) (*model.ContentDraft, error)
	DeleteDraft(ctx context.Context, userID string, id int64) error

	CreateScheduledPost(ctx context.Context, userID string, req dto.ScheduledPostRequest) (*model.ScheduledPost, error)
	ListScheduledPosts(ctx context.Context, userID string) ([]model.ScheduledPost, error)
	DeleteScheduledPost(ctx context.Context, userID string, id int64) error

	CreateAsset(ctx context.Context, userID string, req dto.AssetRequest) (*model.Asset, error)
	ListAssets(ctx context.Context, userID string) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, userID string, id int64) error

	Stats(ctx context.Context, userID string) (*dto.PipelineStats, error)
	SearchTitles(ctx context.Context, userID, query string, limit int) ([]dto.SearchResult, error)
}

type contentUsecase struct {
	contentRepo repository.IContent
}

func NewContentUsecase(contentRepo repository.IContent) IContentUsecase {
	return &contentUsecase{contentRepo: contentRepo}
}

func mapContentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrContentNotFound
	}
	return err
}

func (u *contentUsecase) CreateIdea(ctx context.Context, userID string, req dto.IdeaRequest) (*model.Idea, error) {
	status := req.Status
	if status == "" {
		status = ideaStatusBacklog
	}
	idea := &model.Idea{UserID: userID, Title: req.Title, Notes: req.Notes, Status: status}
	if err := u.contentRepo.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (u *contentUsecase) ListIdeas(ctx context.Context, userID string) ([]model.Idea, error) {
	return u.contentRepo.ListIdeas(ctx, userID)
}

func (u *contentUsecase) UpdateIdea(ctx context.Context, userID string, id int64, req dto.IdeaRequest) (*model.Idea, error) {
	idea := &model.Idea{ID: id, UserID: userID, Title: req.Title, Notes: req.Notes, Status: req.Status}
	if err := u.contentRepo.UpdateIdea(ctx, idea); err != nil {
		return nil, mapContentErr(err)
	}
	return idea, nil
}

func (u *contentUsecase) DeleteIdea(ctx context.Context, userID string, id int64) error {
	return mapContentErr(u.contentRepo.DeleteIdea(ctx, userID, id))
}

func (u *contentUsecase) CreateDraft(ctx context.Context, userID string, req dto.DraftRequest) (*model.ContentDraft, error) {
	status := req.Status
	if status == "" {
		status = draftStatusDraft
	}
	draft := &model.ContentDraft{
		UserID: userID,
		IdeaID: req.IdeaID,
		Title:  req.Title,
		Body:   req.Body,
		Tags:   req.Tags,
		Status: status,
	}
	if err := u.contentRepo.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (u *contentUsecase) ListDrafts(ctx context.Context, userID string) ([]model.ContentDraft, error) {
	return u.contentRepo.ListDrafts(ctx, userID)
}

func (u *contentUsecase) UpdateDraft(ctx context.Context, userID string, id int64, req dto.DraftRequest) (*model.ContentDraft, error) {
	draft := &model.ContentDraft{
		ID:     id,
		UserID: userID,
		IdeaID: req.IdeaID,
		Title:  req.Title,
		Body:   req.Body,
		Tags:   req.Tags,
		Status: req.Status,
	}
	if err := u.contentRepo.UpdateDraft(ctx, draft); err != nil {
		return nil, mapContentErr(err)
	}
	return draft, nil
}

func (u *contentUsecase) DeleteDraft(ctx context.Context, userID string, id int64) error {
	return mapContentErr(u.contentRepo.DeleteDraft(ctx, userID, id))
}

func (u *contentUsecase) CreateScheduledPost(ctx context.Context, userID string, req dto.ScheduledPostRequest) (*model.ScheduledPost, error) {
	post := &model.ScheduledPost{
		UserID:      userID,
		DraftID:     req.DraftID,
		Platform:    req.Platform,
		ScheduledAt: req.ScheduledAt,
	}
	if err := u.contentRepo.CreateScheduledPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (u *contentUsecase) ListScheduledPosts(ctx context.Context, userID string) ([]model.ScheduledPost, error) {
	return u.contentRepo.ListScheduledPosts(ctx, userID)
}

func (u *contentUsecase) DeleteScheduledPost(ctx context.Context, userID string, id int64) error {
	return mapContentErr(u.contentRepo.DeleteScheduledPost(ctx, userID, id))
}

func (u *contentUsecase) CreateAsset(ctx context.Context, userID string, req dto.AssetRequest) (*model.Asset, error) {
	asset := &model.Asset{
		UserID:  userID,
		DraftID: req.DraftID,
		Kind:    req.Kind,
		URL:     req.URL,
		Label:   req.Label,
	}
	if err := u.contentRepo.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (u *contentUsecase) ListAssets(ctx context.Context, userID string) ([]model.Asset, error) {
	return u.contentRepo.ListAssets(ctx, userID)
}

func (u *contentUsecase) DeleteAsset(ctx context.Context, userID string, id int64) error {
	return mapContentErr(u.contentRepo.DeleteAsset(ctx, userID, id))
}

func (u *contentUsecase) Stats(ctx context.Context, userID string) (*dto.PipelineStats, error) {
	return u.contentRepo.Stats(ctx, userID)
}

func (u *contentUsecase) SearchTitles(ctx context.Context, userID, query string, limit int) ([]dto.SearchResult, error) {
	return u.contentRepo.SearchTitles(ctx, userID, query, limit)
}
