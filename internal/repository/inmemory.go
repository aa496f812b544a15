package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/domain"
	"github.com/google/uuid"
)

// InMemorySubscriptionRepository is a map-backed SubscriptionRepository.
// It backs tests and local development without a database.
type InMemorySubscriptionRepository struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[int64]domain.Subscription
}

// NewInMemorySubscriptionRepository creates an empty in-memory repository.
func NewInMemorySubscriptionRepository() *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		nextID: 1,
		subs:   make(map[int64]domain.Subscription),
	}
}

func (r *InMemorySubscriptionRepository) Create(_ context.Context, sub *domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	sub.ID = r.nextID
	sub.CreatedAt = now
	sub.UpdatedAt = now
	r.nextID++
	r.subs[sub.ID] = *sub
	return nil
}

func (r *InMemorySubscriptionRepository) GetByID(_ context.Context, userID uuid.UUID, id int64) (*domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok || sub.UserID != userID {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (r *InMemorySubscriptionRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Subscription, 0)
	for _, sub := range r.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sortSubscriptions(out)
	return out, nil
}

func (r *InMemorySubscriptionRepository) ListByStatuses(_ context.Context, statuses []domain.SubscriptionStatus) ([]domain.Subscription, error) {
	wanted := make(map[domain.SubscriptionStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Subscription, 0)
	for _, sub := range r.subs {
		if wanted[sub.Status] {
			out = append(out, sub)
		}
	}
	sortSubscriptions(out)
	return out, nil
}

func (r *InMemorySubscriptionRepository) Update(_ context.Context, sub *domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.subs[sub.ID]
	if !ok || existing.UserID != sub.UserID {
		return ErrNotFound
	}
	sub.UpdatedAt = time.Now()
	r.subs[sub.ID] = *sub
	return nil
}

func (r *InMemorySubscriptionRepository) UpdateNextBillingDate(_ context.Context, userID uuid.UUID, id int64, nextDate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok || sub.UserID != userID {
		return ErrNotFound
	}
	sub.NextBillingDate = nextDate
	sub.UpdatedAt = time.Now()
	r.subs[id] = sub
	return nil
}

func (r *InMemorySubscriptionRepository) Delete(_ context.Context, userID uuid.UUID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok || sub.UserID != userID {
		return ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

func sortSubscriptions(subs []domain.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].UserID != subs[j].UserID {
			return subs[i].UserID.String() < subs[j].UserID.String()
		}
		return subs[i].ID < subs[j].ID
	})
}

// InMemoryCategoryRepository is a map-backed CategoryRepository.
type InMemoryCategoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	cats   map[int64]domain.Category
}

// NewInMemoryCategoryRepository creates an empty in-memory repository.
func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{
		nextID: 1,
		cats:   make(map[int64]domain.Category),
	}
}

func (r *InMemoryCategoryRepository) GetOrCreate(_ context.Context, userID uuid.UUID, name, color, icon string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidData
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cat := range r.cats {
		if cat.UserID == userID && cat.Name == name {
			return &cat, nil
		}
	}

	if color == "" {
		color = domain.DefaultCategoryColor
	}
	cat := domain.Category{
		ID:     r.nextID,
		UserID: userID,
		Name:   name,
		Color:  color,
		Icon:   icon,
	}
	r.nextID++
	r.cats[cat.ID] = cat
	return &cat, nil
}

func (r *InMemoryCategoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0)
	for _, cat := range r.cats {
		if cat.UserID == userID {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// InMemoryBudgetRepository is a map-backed BudgetRepository with the same
// upsert-per-(user, category) semantics as the PostgreSQL one.
type InMemoryBudgetRepository struct {
	mu      sync.RWMutex
	budgets map[uuid.UUID]domain.Budget
}

// NewInMemoryBudgetRepository creates an empty in-memory repository.
func NewInMemoryBudgetRepository() *InMemoryBudgetRepository {
	return &InMemoryBudgetRepository{
		budgets: make(map[uuid.UUID]domain.Budget),
	}
}

func (r *InMemoryBudgetRepository) Upsert(_ context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.budgets {
		if existing.UserID == budget.UserID && existing.Category == budget.Category {
			existing.LimitAmount = budget.LimitAmount
			r.budgets[id] = existing
			*budget = existing
			return nil
		}
	}

	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	r.budgets[budget.ID] = *budget
	return nil
}

func (r *InMemoryBudgetRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Budget, 0)
	for _, b := range r.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *InMemoryBudgetRepository) Delete(_ context.Context, userID uuid.UUID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[id]
	if !ok || b.UserID != userID {
		return ErrNotFound
	}
	delete(r.budgets, id)
	return nil
}

// InMemoryProfileRepository is a map-backed ProfileRepository.
type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.Profile
}

// NewInMemoryProfileRepository creates an empty in-memory repository.
func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[uuid.UUID]domain.Profile),
	}
}

// Put stores a profile (test helper).
func (r *InMemoryProfileRepository) Put(profile domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
}

func (r *InMemoryProfileRepository) GetByID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}
