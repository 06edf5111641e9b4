package usecase

import (
	"context"
	"database/sql"
	"errors"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
)

var ErrNoteNotFound = errors.New("research note not found")

type IResearchNoteUsecase interface {
	Create(ctx context.Context, userID string, req dto.ResearchNoteRequest) (*model.ResearchNote, error)
	GetById(ctx context.Context, userID string, id int64) (*model.ResearchNote, error)
	List(ctx context.Context, userID string, limit int) ([]model.ResearchNote, error)
	Update(ctx context.Context, userID string, id int64, req dto.ResearchNoteRequest) (*model.ResearchNote, error)
	Delete(ctx context.Context, userID string, id int64) error
	Search(ctx context.Context, userID, query string, limit int) ([]model.ResearchNote, error)
	Summarize(ctx context.Context, userID string, id int64) (*model.NoteSummary, error)
}

type researchNoteUsecase struct {
	noteRepo repository.IResearchNote
	llm      repository.ILLM
}

func NewResearchNoteUsecase(noteRepo repository.IResearchNote, llm repository.ILLM) IResearchNoteUsecase {
	return &researchNoteUsecase{noteRepo: noteRepo, llm: llm}
}

func (u *researchNoteUsecase) Create(ctx context.Context, userID string, req dto.ResearchNoteRequest) (*model.ResearchNote, error) {
	n := &model.ResearchNote{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := u.noteRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (u *researchNoteUsecase) GetById(ctx context.Context, userID string, id int64) (*model.ResearchNote, error) {
	n, err := u.noteRepo.GetById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNoteNotFound
	}
	return n, nil
}

func (u *researchNoteUsecase) List(ctx context.Context, userID string, limit int) ([]model.ResearchNote, error) {
	return u.noteRepo.List(ctx, userID, limit)
}

func (u *researchNoteUsecase) Update(ctx context.Context, userID string, id int64, req dto.ResearchNoteRequest) (*model.ResearchNote, error) {
	n, err := u.GetById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	n.Title = req.Title
	n.Content = req.Content
	n.Tags = req.Tags
	if err := u.noteRepo.Update(ctx, n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

func (u *researchNoteUsecase) Search(ctx context.Context, userID, query string, limit int) ([]model.ResearchNote, error) {
	return u.noteRepo.Search(ctx, userID, query, limit)
}

func (u *researchNoteUsecase) Delete(ctx context.Context, userID string, id int64) error {
	if err := u.noteRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}

// Summarize runs the LLM over the note and stores the summary text on the
// note. The adapter degrades to a placeholder summary on provider failure, so
// Summarize only errors when the note is missing or the store write fails.
func (u *researchNoteUsecase) Summarize(ctx context.Context, userID string, id int64) (*model.NoteSummary, error) {
	n, err := u.GetById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	summary, err := u.llm.SummarizeNote(ctx, n.Title, n.Content)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Note summarization failed")
		return nil, err
	}
	if err := u.noteRepo.SetSummary(ctx, userID, id, summary.Summary); err != nil {
		return nil, err
	}
	return summary, nil
}
