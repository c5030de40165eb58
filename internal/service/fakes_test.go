package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"obrafacil/internal/model"
	"obrafacil/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the persistence contracts closely
// enough for service-level tests: not-found is gorm.ErrRecordNotFound, reads
// hand out copies so mutations only land through Update.

type fakeUserRepo struct {
	users  map[uuid.UUID]model.User
	order  []uuid.UUID
	tokens map[string]model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]model.User),
		tokens: make(map[string]model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	f.users[user.ID] = *user
	f.order = append(f.order, user.ID)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, id := range f.order {
		user, ok := f.users[id]
		if ok && strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(f.users))
	for _, id := range f.order {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok || rt.ExpiresAt.Before(time.Now()) {
		return nil, gorm.ErrRecordNotFound
	}
	return &rt, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteRefreshTokensForUser(_ context.Context, userID uuid.UUID) error {
	for token, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

type fakeBudgetRepo struct {
	budgets map[uuid.UUID]model.Budget
	order   []uuid.UUID
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[uuid.UUID]model.Budget)}
}

func (f *fakeBudgetRepo) Create(_ context.Context, budget *model.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now()
	}
	f.budgets[budget.ID] = *budget
	f.order = append(f.order, budget.ID)
	return nil
}

func (f *fakeBudgetRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Budget, error) {
	budget, ok := f.budgets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &budget, nil
}

func (f *fakeBudgetRepo) List(_ context.Context, filter repository.BudgetFilter) ([]model.Budget, error) {
	budgets := make([]model.Budget, 0, len(f.budgets))
	// Newest first, matching the real repository ordering.
	for i := len(f.order) - 1; i >= 0; i-- {
		budget, ok := f.budgets[f.order[i]]
		if !ok {
			continue
		}
		if !filter.From.IsZero() && budget.Data.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !budget.Data.Before(filter.To.AddDate(0, 0, 1)) {
			continue
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func (f *fakeBudgetRepo) Update(_ context.Context, budget *model.Budget) error {
	if _, ok := f.budgets[budget.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.budgets[budget.ID] = *budget
	return nil
}

func (f *fakeBudgetRepo) ReplaceItems(_ context.Context, budget *model.Budget, items []model.BudgetItem) error {
	for i := range items {
		items[i].BudgetID = budget.ID
	}
	budget.Itens = items
	return nil
}

func (f *fakeBudgetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.budgets, id)
	return nil
}

// NextNumero mirrors the real generator: the suffix is the highest surviving
// numero for the year plus one, not a row count.
func (f *fakeBudgetRepo) NextNumero(_ context.Context) (string, error) {
	prefix := fmt.Sprintf("ORC-%s-", time.Now().Format("2006"))
	max := 0
	for _, budget := range f.budgets {
		var n int
		if _, err := fmt.Sscanf(budget.Numero, prefix+"%03d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1), nil
}

type fakeMaterialRepo struct {
	materials map[uuid.UUID]model.Material
	order     []uuid.UUID
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[uuid.UUID]model.Material)}
}

func (f *fakeMaterialRepo) Create(_ context.Context, material *model.Material) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now()
	}
	f.materials[material.ID] = *material
	f.order = append(f.order, material.ID)
	return nil
}

func (f *fakeMaterialRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	material, ok := f.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &material, nil
}

func (f *fakeMaterialRepo) GetByCodigo(_ context.Context, codigo string) (*model.Material, error) {
	for _, material := range f.materials {
		if material.Codigo == codigo {
			m := material
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMaterialRepo) List(_ context.Context) ([]model.Material, error) {
	materials := make([]model.Material, 0, len(f.materials))
	for _, id := range f.order {
		if material, ok := f.materials[id]; ok {
			materials = append(materials, material)
		}
	}
	return materials, nil
}

func (f *fakeMaterialRepo) Update(_ context.Context, material *model.Material) error {
	if _, ok := f.materials[material.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.materials[material.ID] = *material
	return nil
}

func (f *fakeMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.materials, id)
	return nil
}

type fakeAdditionRepo struct {
	additions map[uuid.UUID]model.Addition
	order     []uuid.UUID
}

func newFakeAdditionRepo() *fakeAdditionRepo {
	return &fakeAdditionRepo{additions: make(map[uuid.UUID]model.Addition)}
}

func (f *fakeAdditionRepo) Create(_ context.Context, addition *model.Addition) error {
	if addition.ID == uuid.Nil {
		addition.ID = uuid.New()
	}
	if addition.CreatedAt.IsZero() {
		addition.CreatedAt = time.Now()
	}
	f.additions[addition.ID] = *addition
	f.order = append(f.order, addition.ID)
	return nil
}

func (f *fakeAdditionRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Addition, error) {
	addition, ok := f.additions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &addition, nil
}

func (f *fakeAdditionRepo) List(_ context.Context) ([]model.Addition, error) {
	additions := make([]model.Addition, 0, len(f.additions))
	for i := len(f.order) - 1; i >= 0; i-- {
		if addition, ok := f.additions[f.order[i]]; ok {
			additions = append(additions, addition)
		}
	}
	return additions, nil
}

func (f *fakeAdditionRepo) Update(_ context.Context, addition *model.Addition) error {
	if _, ok := f.additions[addition.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.additions[addition.ID] = *addition
	return nil
}

func (f *fakeAdditionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.additions, id)
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	filtered := make([]model.AuditLog, 0, len(f.entries))
	for _, entry := range f.entries {
		if action == "" || entry.Action == action {
			filtered = append(filtered, entry)
		}
	}
	return filtered, int64(len(filtered)), nil
}

func (f *fakeAuditRepo) actions() []string {
	actions := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

// fakeTxManager runs the callback directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
