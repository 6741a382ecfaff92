// Package fixtures provides in-memory test doubles for the store contracts.
// The memory store honors the same guarantees the real implementation gets
// from the database: one atomic scope at a time per store, full rollback on
// error, balance checks atomic with the adjustment.
package fixtures

import (
	"context"
	"sort"
	"sync"

	"github.com/gobank/core/pkg/domain"
	"github.com/gobank/core/pkg/dto"
	"github.com/gobank/core/pkg/pagination"
	"github.com/gobank/core/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type accountRow struct {
	id        uuid.UUID
	number    int
	userID    uuid.UUID
	balance   decimal.Decimal
	createdAt time.Time
}

type paymentRow struct {
	dto.PaymentCreate
	createdAt time.Time
}

type userRow struct {
	id             uuid.UUID
	username       string
	email          string
	role           string
	hashedPassword string
	verified       bool
	createdAt      time.Time
}

// MemoryStore is an in-memory UnitOfWork whose Do serializes scopes behind a
// single mutex and restores a snapshot on error.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]*accountRow
	byNumber   map[int]uuid.UUID
	payments   []paymentRow
	references map[int]bool
	users      map[uuid.UUID]*userRow
	nextNumber int

	// CreditErr, when set, is returned by any positive AdjustBalance. It lets
	// tests fail a transfer between its debit and credit steps.
	CreditErr error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[uuid.UUID]*accountRow),
		byNumber:   make(map[int]uuid.UUID),
		references: make(map[int]bool),
		users:      make(map[uuid.UUID]*userRow),
		nextNumber: 100_000,
	}
}

// SeedAccount inserts an account directly, bypassing business validation.
// Returns the assigned account number.
func (s *MemoryStore) SeedAccount(id, userID uuid.UUID, balance decimal.Decimal) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextNumber++
	row := &accountRow{
		id:        id,
		number:    s.nextNumber,
		userID:    userID,
		balance:   balance,
		createdAt: time.Now(),
	}
	s.accounts[id] = row
	s.byNumber[row.number] = id
	return row.number
}

// SeedUser inserts a user directly, bypassing registration. Seeded users
// count as having confirmed their email.
func (s *MemoryStore) SeedUser(id uuid.UUID, username, email, role, hashedPassword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &userRow{
		id:             id,
		username:       username,
		email:          email,
		role:           role,
		hashedPassword: hashedPassword,
		verified:       true,
		createdAt:      time.Now(),
	}
}

// Balance returns the current balance of an account.
func (s *MemoryStore) Balance(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].balance
}

// Payments returns a copy of all recorded payments.
func (s *MemoryStore) Payments() []dto.PaymentCreate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.PaymentCreate, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p.PaymentCreate)
	}
	return out
}

// TotalBalance sums every account balance, for conservation checks.
func (s *MemoryStore) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, a := range s.accounts {
		total = total.Add(a.balance)
	}
	return total
}

// Do runs fn as one serialized atomic scope. On error every mutation made
// inside the scope is rolled back.
func (s *MemoryStore) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(&memoryTx{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// AccountRepository implements repository.UnitOfWork outside a scope; reads
// are consistent because every scope holds the store mutex.
func (s *MemoryStore) AccountRepository() (repository.AccountRepository, error) {
	return &lockedAccounts{store: s}, nil
}

func (s *MemoryStore) PaymentRepository() (repository.PaymentRepository, error) {
	return &lockedPayments{store: s}, nil
}

func (s *MemoryStore) UserRepository() (repository.UserRepository, error) {
	return &lockedUsers{store: s}, nil
}

type storeState struct {
	accounts   map[uuid.UUID]accountRow
	byNumber   map[int]uuid.UUID
	payments   int
	references map[int]bool
	users      map[uuid.UUID]userRow
	nextNumber int
}

func (s *MemoryStore) snapshot() storeState {
	st := storeState{
		accounts:   make(map[uuid.UUID]accountRow, len(s.accounts)),
		byNumber:   make(map[int]uuid.UUID, len(s.byNumber)),
		payments:   len(s.payments),
		references: make(map[int]bool, len(s.references)),
		users:      make(map[uuid.UUID]userRow, len(s.users)),
		nextNumber: s.nextNumber,
	}
	for id, row := range s.accounts {
		st.accounts[id] = *row
	}
	for n, id := range s.byNumber {
		st.byNumber[n] = id
	}
	for r := range s.references {
		st.references[r] = true
	}
	for id, row := range s.users {
		st.users[id] = *row
	}
	return st
}

func (s *MemoryStore) restore(st storeState) {
	s.accounts = make(map[uuid.UUID]*accountRow, len(st.accounts))
	for id, row := range st.accounts {
		r := row
		s.accounts[id] = &r
	}
	s.byNumber = st.byNumber
	s.payments = s.payments[:st.payments]
	s.references = st.references
	s.nextNumber = st.nextNumber
	s.users = make(map[uuid.UUID]*userRow, len(st.users))
	for id, row := range st.users {
		r := row
		s.users[id] = &r
	}
}

// memoryTx is the scope-bound UnitOfWork handed to fn. The store mutex is
// already held for the duration of the scope.
type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	// Nested scopes join the ambient one.
	return fn(t)
}

func (t *memoryTx) AccountRepository() (repository.AccountRepository, error) {
	return &memoryAccounts{store: t.store}, nil
}

func (t *memoryTx) PaymentRepository() (repository.PaymentRepository, error) {
	return &memoryPayments{store: t.store}, nil
}

func (t *memoryTx) UserRepository() (repository.UserRepository, error) {
	return &memoryUsers{store: t.store}, nil
}

// memoryAccounts assumes the store mutex is held by the enclosing scope.
type memoryAccounts struct {
	store *MemoryStore
}

func (r *memoryAccounts) Create(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error) {
	s := r.store
	// Mirrors the unique index on user_id.
	for _, row := range s.accounts {
		if row.userID == create.UserID {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.nextNumber++
	row := &accountRow{
		id:        create.ID,
		number:    s.nextNumber,
		userID:    create.UserID,
		balance:   create.Balance,
		createdAt: time.Now(),
	}
	s.accounts[row.id] = row
	s.byNumber[row.number] = row.id
	return readAccount(row), nil
}

func (r *memoryAccounts) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	row, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return readAccount(row), nil
}

func (r *memoryAccounts) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	for _, row := range r.store.accounts {
		if row.userID == userID {
			return readAccount(row), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memoryAccounts) GetByNumber(ctx context.Context, number int) (*dto.AccountRead, error) {
	id, ok := r.store.byNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.Get(ctx, id)
}

func (r *memoryAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	// The scope mutex is the lock.
	return r.Get(ctx, id)
}

func (r *memoryAccounts) GetByNumberForUpdate(ctx context.Context, number int) (*dto.AccountRead, error) {
	return r.GetByNumber(ctx, number)
}

func (r *memoryAccounts) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	row, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if delta.IsPositive() && r.store.CreditErr != nil {
		return r.store.CreditErr
	}
	next := row.balance.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	row.balance = next
	return nil
}

func (r *memoryAccounts) Delete(ctx context.Context, id uuid.UUID) error {
	row, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.store.byNumber, row.number)
	delete(r.store.accounts, id)
	return nil
}

func (r *memoryAccounts) List(ctx context.Context, params pagination.Params) ([]*dto.AccountRead, int64, error) {
	rows := make([]*dto.AccountRead, 0, len(r.store.accounts))
	for _, row := range r.store.accounts {
		rows = append(rows, readAccount(row))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	return window(rows, params), int64(len(r.store.accounts)), nil
}

// memoryPayments assumes the store mutex is held by the enclosing scope.
type memoryPayments struct {
	store *MemoryStore
}

func (r *memoryPayments) Create(ctx context.Context, create dto.PaymentCreate) error {
	if r.store.references[create.ReferenceNumber] {
		return domain.ErrDuplicateReference
	}
	r.store.references[create.ReferenceNumber] = true
	r.store.payments = append(r.store.payments, paymentRow{PaymentCreate: create, createdAt: time.Now()})
	return nil
}

func (r *memoryPayments) Get(ctx context.Context, id uuid.UUID) (*dto.PaymentRead, error) {
	for _, p := range r.store.payments {
		if p.ID == id {
			return readPayment(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryPayments) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	var rows []*dto.PaymentRead
	for _, p := range r.store.payments {
		if p.AccountID == accountID && p.ReceiverAccountID == nil {
			rows = append(rows, readPayment(p))
		}
	}
	return window(rows, params), int64(len(rows)), nil
}

func (r *memoryPayments) ListTransfersByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	var rows []*dto.TransferRead
	for _, p := range r.store.payments {
		if p.AccountID == accountID && p.ReceiverAccountID != nil {
			rows = append(rows, readTransfer(r.store, p))
		}
	}
	return window(rows, params), int64(len(rows)), nil
}

func (r *memoryPayments) ListAll(ctx context.Context, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	var rows []*dto.PaymentRead
	for _, p := range r.store.payments {
		if p.ReceiverAccountID == nil {
			rows = append(rows, readPayment(p))
		}
	}
	return window(rows, params), int64(len(rows)), nil
}

func (r *memoryPayments) ListAllTransfers(ctx context.Context, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	var rows []*dto.TransferRead
	for _, p := range r.store.payments {
		if p.ReceiverAccountID != nil {
			rows = append(rows, readTransfer(r.store, p))
		}
	}
	return window(rows, params), int64(len(rows)), nil
}

// memoryUsers assumes the store mutex is held by the enclosing scope.
type memoryUsers struct {
	store *MemoryStore
}

func (r *memoryUsers) Create(ctx context.Context, create dto.UserCreate, hashedPassword string) (*dto.UserRead, error) {
	for _, row := range r.store.users {
		if row.username == create.Username || row.email == create.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	row := &userRow{
		id:             create.ID,
		username:       create.Username,
		email:          create.Email,
		role:           string(domain.RoleUser),
		hashedPassword: hashedPassword,
		createdAt:      time.Now(),
	}
	r.store.users[row.id] = row
	return readUser(row), nil
}

func (r *memoryUsers) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	row, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return readUser(row), nil
}

func (r *memoryUsers) GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error) {
	row, err := r.byIdentity(identity)
	if err != nil {
		return nil, err
	}
	return readUser(row), nil
}

func (r *memoryUsers) GetCredentials(ctx context.Context, identity string) (*dto.UserRead, string, error) {
	row, err := r.byIdentity(identity)
	if err != nil {
		return nil, "", err
	}
	return readUser(row), row.hashedPassword, nil
}

func (r *memoryUsers) Update(ctx context.Context, id uuid.UUID, update dto.UserUpdate) error {
	row, ok := r.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Email != nil {
		row.email = *update.Email
	}
	if update.Role != nil {
		row.role = *update.Role
	}
	if update.Password != nil {
		row.hashedPassword = *update.Password
	}
	if update.Verified != nil {
		row.verified = *update.Verified
	}
	return nil
}

func (r *memoryUsers) ListByRole(ctx context.Context, role string, params pagination.Params) ([]*dto.UserRead, int64, error) {
	var rows []*dto.UserRead
	for _, row := range r.store.users {
		if role == "" || row.role == role {
			rows = append(rows, readUser(row))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Username < rows[j].Username })
	return window(rows, params), int64(len(rows)), nil
}

func (r *memoryUsers) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.users, id)
	return nil
}

func (r *memoryUsers) byIdentity(identity string) (*userRow, error) {
	for _, row := range r.store.users {
		if row.username == identity || row.email == identity {
			return row, nil
		}
	}
	return nil, domain.ErrNotFound
}

// lockedAccounts wraps memoryAccounts with the store mutex for use outside a
// scope.
type lockedAccounts struct {
	store *MemoryStore
}

func (r *lockedAccounts) with() *memoryAccounts { return &memoryAccounts{store: r.store} }

func (r *lockedAccounts) Create(ctx context.Context, create dto.AccountCreate) (*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Create(ctx, create)
}

func (r *lockedAccounts) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Get(ctx, id)
}

func (r *lockedAccounts) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().GetByUser(ctx, userID)
}

func (r *lockedAccounts) GetByNumber(ctx context.Context, number int) (*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().GetByNumber(ctx, number)
}

func (r *lockedAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	return r.Get(ctx, id)
}

func (r *lockedAccounts) GetByNumberForUpdate(ctx context.Context, number int) (*dto.AccountRead, error) {
	return r.GetByNumber(ctx, number)
}

func (r *lockedAccounts) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().AdjustBalance(ctx, id, delta)
}

func (r *lockedAccounts) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Delete(ctx, id)
}

func (r *lockedAccounts) List(ctx context.Context, params pagination.Params) ([]*dto.AccountRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().List(ctx, params)
}

type lockedPayments struct {
	store *MemoryStore
}

func (r *lockedPayments) with() *memoryPayments { return &memoryPayments{store: r.store} }

func (r *lockedPayments) Create(ctx context.Context, create dto.PaymentCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Create(ctx, create)
}

func (r *lockedPayments) Get(ctx context.Context, id uuid.UUID) (*dto.PaymentRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Get(ctx, id)
}

func (r *lockedPayments) ListByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().ListByAccount(ctx, accountID, params)
}

func (r *lockedPayments) ListTransfersByAccount(ctx context.Context, accountID uuid.UUID, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().ListTransfersByAccount(ctx, accountID, params)
}

func (r *lockedPayments) ListAll(ctx context.Context, params pagination.Params) ([]*dto.PaymentRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().ListAll(ctx, params)
}

func (r *lockedPayments) ListAllTransfers(ctx context.Context, params pagination.Params) ([]*dto.TransferRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().ListAllTransfers(ctx, params)
}

type lockedUsers struct {
	store *MemoryStore
}

func (r *lockedUsers) with() *memoryUsers { return &memoryUsers{store: r.store} }

func (r *lockedUsers) Create(ctx context.Context, create dto.UserCreate, hashedPassword string) (*dto.UserRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Create(ctx, create, hashedPassword)
}

func (r *lockedUsers) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Get(ctx, id)
}

func (r *lockedUsers) GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().GetByIdentity(ctx, identity)
}

func (r *lockedUsers) GetCredentials(ctx context.Context, identity string) (*dto.UserRead, string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().GetCredentials(ctx, identity)
}

func (r *lockedUsers) Update(ctx context.Context, id uuid.UUID, update dto.UserUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Update(ctx, id, update)
}

func (r *lockedUsers) ListByRole(ctx context.Context, role string, params pagination.Params) ([]*dto.UserRead, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().ListByRole(ctx, role, params)
}

func (r *lockedUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.with().Delete(ctx, id)
}

func readUser(row *userRow) *dto.UserRead {
	return &dto.UserRead{
		ID:        row.id,
		Username:  row.username,
		Email:     row.email,
		Role:      row.role,
		Verified:  row.verified,
		CreatedAt: row.createdAt,
	}
}

func readAccount(row *accountRow) *dto.AccountRead {
	return &dto.AccountRead{
		ID:        row.id,
		Number:    row.number,
		UserID:    row.userID,
		Balance:   row.balance,
		CreatedAt: row.createdAt,
	}
}

func readPayment(p paymentRow) *dto.PaymentRead {
	return &dto.PaymentRead{
		ID:                p.ID,
		AccountID:         p.AccountID,
		ReceiverAccountID: p.ReceiverAccountID,

		Amount:          p.Amount,
		Kind:            p.Kind,
		Description:     p.Description,
		Method:          p.Method,
		Status:          p.Status,
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.createdAt,
	}
}

func readTransfer(s *MemoryStore, p paymentRow) *dto.TransferRead {
	number := 0
	if p.ReceiverAccountID != nil {
		if row, ok := s.accounts[*p.ReceiverAccountID]; ok {
			number = row.number
		}
	}
	return &dto.TransferRead{
		ID:              p.ID,
		AccountID:       p.AccountID,
		ReceiverNumber:  number,
		Amount:          p.Amount,
		Description:     p.Description,
		Method:          p.Method,
		Status:          p.Status,
		ReferenceNumber: p.ReferenceNumber,
		CreatedAt:       p.createdAt,
	}
}

func window[T any](rows []T, params pagination.Params) []T {
	off := params.Offset()
	if off >= len(rows) {
		return nil
	}
	end := off + params.Limit()
	if end > len(rows) {
		end = len(rows)
	}
	return rows[off:end]
}

var (
	_ repository.UnitOfWork = (*MemoryStore)(nil)
	_ repository.UnitOfWork = (*memoryTx)(nil)
)
