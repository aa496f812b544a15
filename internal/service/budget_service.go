package service

import (
	"context"
	"fmt"

	"github.com/Alicia-Alexia/sub-manager/internal/analytics"
	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/google/uuid"
)

// BudgetStatus pairs a stored budget with its current evaluation.
type BudgetStatus struct {
	Budget     domain.Budget        `json:"budget"`
	Evaluation analytics.Evaluation `json:"evaluation"`
}

// BudgetService manages per-category budgets and their utilization.
type BudgetService interface {
	Upsert(ctx context.Context, userID uuid.UUID, req *domain.BudgetRequest) (*domain.Budget, error)
	ListWithEvaluation(ctx context.Context, userID uuid.UUID) ([]BudgetStatus, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type budgetService struct {
	repo    repository.BudgetRepository
	subRepo repository.SubscriptionRepository
	rates   currency.Source
	log     *logger.Logger
}

// NewBudgetService creates the budget service.
func NewBudgetService(
	repo repository.BudgetRepository,
	subRepo repository.SubscriptionRepository,
	rates currency.Source,
	log *logger.Logger,
) BudgetService {
	return &budgetService{
		repo:    repo,
		subRepo: subRepo,
		rates:   rates,
		log:     log,
	}
}

// Upsert creates or replaces the budget for one category. Setting a budget
// twice for the same category overwrites the limit.
func (s *budgetService) Upsert(ctx context.Context, userID uuid.UUID, req *domain.BudgetRequest) (*domain.Budget, error) {
	if req.LimitAmount <= 0 {
		return nil, fmt.Errorf("%w: budget limit must be positive", domain.ErrInvalidData)
	}

	budget := &domain.Budget{
		UserID:      userID,
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
	}

	if err := s.repo.Upsert(ctx, budget); err != nil {
		return nil, err
	}

	s.log.Infow("Budget upserted", "userID", userID, "category", budget.Category, "limit", budget.LimitAmount)
	return budget, nil
}

// ListWithEvaluation returns each budget together with how much of it the
// user's current subscriptions consume per month.
func (s *budgetService) ListWithEvaluation(ctx context.Context, userID uuid.UUID) ([]BudgetStatus, error) {
	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rates, err := s.rates.Current(ctx)
	if err != nil {
		s.log.Warnw("Rate source unavailable, evaluating budgets unconverted", "error", err)
		rates = nil
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent := analytics.CategorySpent(subs, rates, budget.Category)
		statuses = append(statuses, BudgetStatus{
			Budget:     budget,
			Evaluation: analytics.EvaluateBudget(spent, budget.LimitAmount),
		})
	}

	return statuses, nil
}

// Delete removes one budget.
func (s *budgetService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infow("Budget deleted", "userID", userID, "budgetID", id)
	return nil
}
