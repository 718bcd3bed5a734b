package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
)

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc         func(ctx context.Context, entry *domain.Entry) error
	CreateTxFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Entry, error)
	ListFunc           func(ctx context.Context, userID string, filter usecase.EntryFilter) ([]*domain.Entry, error)
	ListAllFunc        func(ctx context.Context, userID string) ([]*domain.Entry, error)
	DeleteFunc         func(ctx context.Context, id string) error
	DeleteTxFunc       func(ctx context.Context, tx usecase.Transaction, id string) error
	DeleteBySourceFunc func(ctx context.Context, tx usecase.Transaction, sourceID string) (int64, error)
	SumBucketTxFunc    func(ctx context.Context, tx usecase.Transaction, userID string, bucket domain.Bucket, excludeCategory string) (decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}
	return m.Create(ctx, entry)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) List(ctx context.Context, userID string, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	all, err := m.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []*domain.Entry
	for _, e := range all {
		if filter.Bucket != "" && e.Bucket != filter.Bucket {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MockEntryRepository) ListAll(ctx context.Context, userID string) ([]*domain.Entry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockEntryRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	return m.Delete(ctx, id)
}

func (m *MockEntryRepository) DeleteBySourceTx(ctx context.Context, tx usecase.Transaction, sourceID string) (int64, error) {
	if m.DeleteBySourceFunc != nil {
		return m.DeleteBySourceFunc(ctx, tx, sourceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.entries {
		if e.SourceID == sourceID {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MockEntryRepository) SumBucketTx(ctx context.Context, tx usecase.Transaction, userID string, bucket domain.Bucket, excludeCategory string) (decimal.Decimal, error) {
	if m.SumBucketTxFunc != nil {
		return m.SumBucketTxFunc(ctx, tx, userID, bucket, excludeCategory)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.UserID != userID || e.Bucket != bucket {
			continue
		}
		if excludeCategory != "" && e.Category == excludeCategory {
			continue
		}
		sum = sum.Add(e.Signed())
	}
	return sum, nil
}

// Len returns the number of stored entries.
func (m *MockEntryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns every stored entry regardless of user.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out
}

// MockHoldingRepository is a mock implementation of HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Holding, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error)
	ListFunc             func(ctx context.Context, userID string, filter usecase.HoldingFilter) ([]*domain.Holding, error)
	ListRunningFunc      func(ctx context.Context) ([]*domain.Holding, error)
	UpdateFunc           func(ctx context.Context, holding *domain.Holding) error
	UpdateTxFunc         func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	DeleteTxFunc         func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make(map[string]*domain.Holding),
	}
}

func (m *MockHoldingRepository) CreateTx(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, holding)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holding.ID] = holding
	return nil
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, id string) (*domain.Holding, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.holdings[id]; ok {
		return h, nil
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *MockHoldingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Holding, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockHoldingRepository) List(ctx context.Context, userID string, filter usecase.HoldingFilter) ([]*domain.Holding, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Holding
	for _, h := range m.holdings {
		if h.UserID != userID {
			continue
		}
		if filter.Category != "" && h.Category != filter.Category {
			continue
		}
		if filter.Status != "" && h.Status != filter.Status {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockHoldingRepository) ListRunning(ctx context.Context) ([]*domain.Holding, error) {
	if m.ListRunningFunc != nil {
		return m.ListRunningFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Holding
	for _, h := range m.holdings {
		if h.Status == domain.HoldingRunning {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockHoldingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, holding)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holdings[holding.ID]; !ok {
		return domain.ErrHoldingNotFound
	}
	m.holdings[holding.ID] = holding
	return nil
}

func (m *MockHoldingRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, holding)
	}
	return m.Update(ctx, holding)
}

func (m *MockHoldingRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holdings[id]; !ok {
		return domain.ErrHoldingNotFound
	}
	delete(m.holdings, id)
	return nil
}

// MockTradeRepository is a mock implementation of TradeRepository.
type MockTradeRepository struct {
	mu     sync.RWMutex
	trades map[string]*domain.Trade

	CreateTxFunc     func(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Trade, error)
	ListFunc         func(ctx context.Context, userID string, limit, offset int) ([]*domain.Trade, error)
	ListAllFunc      func(ctx context.Context, userID string) ([]*domain.Trade, error)
	DeleteTxFunc     func(ctx context.Context, tx usecase.Transaction, id string) error
	SumResultsFunc   func(ctx context.Context, userID string) (decimal.Decimal, error)
	SumResultsTxFunc func(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error)
}

func NewMockTradeRepository() *MockTradeRepository {
	return &MockTradeRepository{
		trades: make(map[string]*domain.Trade),
	}
}

func (m *MockTradeRepository) CreateTx(ctx context.Context, tx usecase.Transaction, trade *domain.Trade) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, trade)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades[trade.ID] = trade
	return nil
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.trades[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTradeNotFound
}

func (m *MockTradeRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Trade, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit, offset)
	}
	return m.ListAll(ctx, userID)
}

func (m *MockTradeRepository) ListAll(ctx context.Context, userID string) ([]*domain.Trade, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trade
	for _, t := range m.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MockTradeRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trades[id]; !ok {
		return domain.ErrTradeNotFound
	}
	delete(m.trades, id)
	return nil
}

func (m *MockTradeRepository) SumResults(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.SumResultsFunc != nil {
		return m.SumResultsFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.trades {
		if t.UserID == userID {
			sum = sum.Add(t.Result)
		}
	}
	return sum, nil
}

func (m *MockTradeRepository) SumResultsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	if m.SumResultsTxFunc != nil {
		return m.SumResultsTxFunc(ctx, tx, userID)
	}
	return m.SumResults(ctx, userID)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u := *user
	m.users[u.ID] = &u
	return nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return ulid.Make().String()
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	IssueFunc func(userID, email string) (string, error)
}

func (m *MockTokenIssuer) Issue(userID, email string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, email)
	}
	return "token-" + userID, nil
}
