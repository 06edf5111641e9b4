package usecase

import (
	"context"
	"sort"
	"strconv"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/infrastructure/logger"
)

const (
	dashboardNotificationLimit = 5
	dashboardNoteLimit         = 5
	searchResultLimit          = 20
)

type IDashboardUsecase interface {
	// Overview assembles the aggregate view. Every widget degrades
	// independently: a failed section logs and renders empty, it never
	// fails the whole response.
	Overview(ctx context.Context, userID string) (*dto.Dashboard, error)
	Search(ctx context.Context, userID, query string) ([]dto.SearchResult, error)
}

type dashboardUsecase struct {
	notifications INotificationUsecase
	notes         IResearchNoteUsecase
	content       IContentUsecase
	github        IGitHubUsecase
}

func NewDashboardUsecase(
	notifications INotificationUsecase,
	notes IResearchNoteUsecase,
	content IContentUsecase,
	github IGitHubUsecase,
) IDashboardUsecase {
	return &dashboardUsecase{
		notifications: notifications,
		notes:         notes,
		content:       content,
		github:        github,
	}
}

// safeGet runs one widget fetch and swallows its failure.
func safeGet[T any](section string, fetch func() (T, error)) T {
	v, err := fetch()
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("section", section).Warn("Dashboard section failed")
		var zero T
		return zero
	}
	return v
}

func (u *dashboardUsecase) Overview(ctx context.Context, userID string) (*dto.Dashboard, error) {
	d := &dto.Dashboard{}

	d.Notifications = safeGet("notifications", func() ([]model.Notification, error) {
		return u.notifications.List(ctx, userID, dto.NotificationListOptions{Limit: dashboardNotificationLimit})
	})
	d.Banners = safeGet("banners", func() ([]model.Notification, error) {
		return u.notifications.Banners(ctx, userID)
	})
	d.UnreadCount = safeGet("unread_count", func() (int, error) {
		return u.notifications.CountUnread(ctx, userID)
	})
	d.RecentNotes = safeGet("recent_notes", func() ([]model.ResearchNote, error) {
		return u.notes.List(ctx, userID, dashboardNoteLimit)
	})
	if stats := safeGet("pipeline_stats", func() (*dto.PipelineStats, error) {
		return u.content.Stats(ctx, userID)
	}); stats != nil {
		d.PipelineStats = *stats
	}
	if status := safeGet("github", func() (*dto.IntegrationStatusResponse, error) {
		return u.github.Status(ctx, userID)
	}); status != nil {
		d.Github = *status
	}

	if d.Notifications == nil {
		d.Notifications = []model.Notification{}
	}
	if d.Banners == nil {
		d.Banners = []model.Notification{}
	}
	if d.RecentNotes == nil {
		d.RecentNotes = []model.ResearchNote{}
	}
	return d, nil
}

// Search merges note hits and content-pipeline title hits. Either source may
// fail independently; results are ordered by kind then title.
func (u *dashboardUsecase) Search(ctx context.Context, userID, query string) ([]dto.SearchResult, error) {
	results := make([]dto.SearchResult, 0, searchResultLimit)

	notes := safeGet("search_notes", func() ([]model.ResearchNote, error) {
		return u.notes.Search(ctx, userID, query, searchResultLimit)
	})
	for _, n := range notes {
		results = append(results, dto.SearchResult{Kind: "note", ID: strconv.FormatInt(n.ID, 10), Title: n.Title})
	}

	titles := safeGet("search_content", func() ([]dto.SearchResult, error) {
		return u.content.SearchTitles(ctx, userID, query, searchResultLimit)
	})
	results = append(results, titles...)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Kind != results[j].Kind {
			return results[i].Kind < results[j].Kind
		}
		return results[i].Title < results[j].Title
	})
	if len(results) > searchResultLimit {
		results = results[:searchResultLimit]
	}
	return results, nil
}
