package persistence

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"command-center/domain/dto"
	"command-center/domain/model"
)

// ErrContentStoreUnavailable means the content database was not configured at
// startup. Handlers surface it as a 500; the rest of the app keeps working.
var ErrContentStoreUnavailable = errors.New("content database not configured")

type ContentRepository struct{ db *gorm.DB }

func NewContentRepository(db *gorm.DB) *ContentRepository { return &ContentRepository{db: db} }

func (r *ContentRepository) guard() error {
	if r.db == nil {
		return ErrContentStoreUnavailable
	}
	return nil
}

func (r *ContentRepository) CreateIdea(ctx context.Context, idea *model.Idea) error {
	if err := r.guard(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(idea).Error
}

func (r *ContentRepository) ListIdeas(ctx context.Context, userID string) ([]model.Idea, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	var ideas []model.Idea
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ideas).Error
	return ideas, err
}

func (r *ContentRepository) UpdateIdea(ctx context.Context, idea *model.Idea) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.Idea{}).Where("user_id = ? AND id = ?", idea.UserID, idea.ID).
		Updates(map[string]interface{}{"title": idea.Title, "notes": idea.Notes, "status": idea.Status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteIdea(ctx context.Context, userID string, id int64) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Idea{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) CreateDraft(ctx context.Context, draft *model.ContentDraft) error {
	if err := r.guard(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *ContentRepository) ListDrafts(ctx context.Context, userID string) ([]model.ContentDraft, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	var drafts []model.ContentDraft
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&drafts).Error
	return drafts, err
}

func (r *ContentRepository) UpdateDraft(ctx context.Context, draft *model.ContentDraft) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.ContentDraft{}).Where("user_id = ? AND id = ?", draft.UserID, draft.ID).
		Updates(map[string]interface{}{"title": draft.Title, "body": draft.Body, "tags": draft.Tags, "status": draft.Status, "idea_id": draft.IdeaID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteDraft(ctx context.Context, userID string, id int64) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.ContentDraft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) CreateScheduledPost(ctx context.Context, post *model.ScheduledPost) error {
	if err := r.guard(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *ContentRepository) ListScheduledPosts(ctx context.Context, userID string) ([]model.ScheduledPost, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	var posts []model.ScheduledPost
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("scheduled_at ASC").Find(&posts).Error
	return posts, err
}

func (r *ContentRepository) DeleteScheduledPost(ctx context.Context, userID string, id int64) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.ScheduledPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) CreateAsset(ctx context.Context, asset *model.Asset) error {
	if err := r.guard(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *ContentRepository) ListAssets(ctx context.Context, userID string) ([]model.Asset, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	var assets []model.Asset
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&assets).Error
	return assets, err
}

func (r *ContentRepository) DeleteAsset(ctx context.Context, userID string, id int64) error {
	if err := r.guard(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Asset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) Stats(ctx context.Context, userID string) (*dto.PipelineStats, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	stats := &dto.PipelineStats{}
	if err := r.db.WithContext(ctx).Model(&model.Idea{}).Where("user_id = ?", userID).Count(&stats.Ideas).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.ContentDraft{}).Where("user_id = ?", userID).Count(&stats.Drafts).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.ScheduledPost{}).Where("user_id = ? AND published = ?", userID, false).Count(&stats.Scheduled).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *ContentRepository) SearchTitles(ctx context.Context, userID, query string, limit int) ([]dto.SearchResult, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	out := make([]dto.SearchResult, 0)

	var ideas []model.Idea
	if err := r.db.WithContext(ctx).Where("user_id = ? AND title LIKE ?", userID, pattern).Limit(limit).Find(&ideas).Error; err != nil {
		return nil, err
	}
	for _, idea := range ideas {
		out = append(out, dto.SearchResult{Kind: "idea", ID: strconv.FormatInt(idea.ID, 10), Title: idea.Title})
	}

	var drafts []model.ContentDraft
	if err := r.db.WithContext(ctx).Where("user_id = ? AND title LIKE ?", userID, pattern).Limit(limit).Find(&drafts).Error; err != nil {
		return nil, err
	}
	for _, draft := range drafts {
		out = append(out, dto.SearchResult{Kind: "draft", ID: strconv.FormatInt(draft.ID, 10), Title: draft.Title})
	}
	return out, nil
}
