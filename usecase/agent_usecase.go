package usecase

import (
	"context"
	"database/sql"
	"errors"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
)

var ErrAgentNotFound = errors.New("agent not found")

const defaultAgentModel = "gpt-4o-mini"

type IAgentUsecase interface {
	Create(ctx context.Context, userID string, req dto.AgentRequest) (*model.Agent, error)
	GetById(ctx context.Context, userID string, id int64) (*model.Agent, error)
	List(ctx context.Context, userID string) ([]model.Agent, error)
	Update(ctx context.Context, userID string, id int64, req dto.AgentRequest) (*model.Agent, error)
	Delete(ctx context.Context, userID string, id int64) error

	UpsertMemory(ctx context.Context, userID string, agentID int64, req dto.AgentMemoryRequest) (*model.AgentMemory, error)
	ListMemory(ctx context.Context, userID string, agentID int64) ([]model.AgentMemory, error)
	GetApprovalPolicy(ctx context.Context, userID string, agentID int64) (*model.ApprovalPolicy, error)
	SetApprovalPolicy(ctx context.Context, userID string, agentID int64, req dto.ApprovalPolicyRequest) (*model.ApprovalPolicy, error)
	RunTest(ctx context.Context, userID string, agentID int64, input string) (*model.AgentTestLog, error)
	ListTestLogs(ctx context.Context, userID string, agentID int64, limit int) ([]model.AgentTestLog, error)
}

type agentUsecase struct {
	agentRepo repository.IAgent
	llm       repository.ILLM
}

func NewAgentUsecase(agentRepo repository.IAgent, llm repository.ILLM) IAgentUsecase {
	return &agentUsecase{agentRepo: agentRepo, llm: llm}
}

func (u *agentUsecase) Create(ctx context.Context, userID string, req dto.AgentRequest) (*model.Agent, error) {
	agentModel := req.Model
	if agentModel == "" {
		agentModel = defaultAgentModel
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	a := &model.Agent{
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Model:         agentModel,
		SystemPrompt:  req.SystemPrompt,
		SkillManifest: req.SkillManifest,
		Enabled:       enabled,
	}
	if err := u.agentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (u *agentUsecase) GetById(ctx context.Context, userID string, id int64) (*model.Agent, error) {
	a, err := u.agentRepo.GetById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAgentNotFound
	}
	return a, nil
}

func (u *agentUsecase) List(ctx context.Context, userID string) ([]model.Agent, error) {
	return u.agentRepo.List(ctx, userID)
}

func (u *agentUsecase) Update(ctx context.Context, userID string, id int64, req dto.AgentRequest) (*model.Agent, error) {
	a, err := u.GetById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	a.Name = req.Name
	a.Description = req.Description
	if req.Model != "" {
		a.Model = req.Model
	}
	a.SystemPrompt = req.SystemPrompt
	if req.SkillManifest != nil {
		a.SkillManifest = req.SkillManifest
	}
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}
	if err := u.agentRepo.Update(ctx, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (u *agentUsecase) Delete(ctx context.Context, userID string, id int64) error {
	if err := u.agentRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAgentNotFound
		}
		return err
	}
	return nil
}

func (u *agentUsecase) UpsertMemory(ctx context.Context, userID string, agentID int64, req dto.AgentMemoryRequest) (*model.AgentMemory, error) {
	if _, err := u.GetById(ctx, userID, agentID); err != nil {
		return nil, err
	}
	m := &model.AgentMemory{
		AgentID: agentID,
		UserID:  userID,
		Key:     req.Key,
		Value:   req.Value,
	}
	if err := u.agentRepo.UpsertMemory(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *agentUsecase) ListMemory(ctx context.Context, userID string, agentID int64) ([]model.AgentMemory, error) {
	return u.agentRepo.ListMemory(ctx, userID, agentID)
}

// GetApprovalPolicy returns the stored policy or the restrictive default
// (approval required, no auto-approve) when none has been set.
func (u *agentUsecase) GetApprovalPolicy(ctx context.Context, userID string, agentID int64) (*model.ApprovalPolicy, error) {
	p, err := u.agentRepo.GetApprovalPolicy(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &model.ApprovalPolicy{AgentID: agentID, UserID: userID, RequireApproval: true}, nil
	}
	return p, nil
}

func (u *agentUsecase) SetApprovalPolicy(ctx context.Context, userID string, agentID int64, req dto.ApprovalPolicyRequest) (*model.ApprovalPolicy, error) {
	if _, err := u.GetById(ctx, userID, agentID); err != nil {
		return nil, err
	}
	p := &model.ApprovalPolicy{
		AgentID:         agentID,
		UserID:          userID,
		RequireApproval: req.RequireApproval,
		AutoApproveRead: req.AutoApproveRead,
	}
	if err := u.agentRepo.UpsertApprovalPolicy(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RunTest sends the input through the agent's configured prompt and records
// the exchange. The LLM adapter falls back to a deterministic suggestion when
// no provider is configured, so a test run always produces a log entry.
func (u *agentUsecase) RunTest(ctx context.Context, userID string, agentID int64, input string) (*model.AgentTestLog, error) {
	a, err := u.GetById(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	prompt := input
	if a.SystemPrompt != "" {
		prompt = a.SystemPrompt + "\n\n" + input
	}

	title, body, llmErr := u.llm.SuggestIssue(ctx, prompt)
	output := title
	if body != "" {
		output = title + "\n" + body
	}

	log := &model.AgentTestLog{
		AgentID: agentID,
		UserID:  userID,
		Input:   input,
		Output:  output,
		Passed:  llmErr == nil && output != "",
	}
	if err := u.agentRepo.AppendTestLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (u *agentUsecase) ListTestLogs(ctx context.Context, userID string, agentID int64, limit int) ([]model.AgentTestLog, error) {
	return u.agentRepo.ListTestLogs(ctx, userID, agentID, limit)
}
