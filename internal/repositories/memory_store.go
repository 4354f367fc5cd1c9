package repositories

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
)

// MemoryStore is a Store kept in process memory. Each Do works on a copy of
// the data and publishes it only when fn succeeds, so operations are
// serialised and all-or-nothing. Account deletes obey the same RESTRICT
// foreign keys as the Postgres schema.
type MemoryStore struct {
	mu   sync.Mutex
	data memoryData
}

type memoryData struct {
	accounts      map[string]models.Account
	transactions  map[uint]models.Transaction
	users         map[uint]models.User
	notifications map[uint]models.Notification
	lastID        uint
}

func (d memoryData) clone() memoryData {
	return memoryData{
		accounts:      maps.Clone(d.accounts),
		transactions:  maps.Clone(d.transactions),
		users:         maps.Clone(d.users),
		notifications: maps.Clone(d.notifications),
		lastID:        d.lastID,
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memoryData{
		accounts:      map[string]models.Account{},
		transactions:  map[uint]models.Transaction{},
		users:         map[uint]models.User{},
		notifications: map[uint]models.Notification{},
	}}
}

func (s *MemoryStore) Do(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&memoryTx{data: &work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// PutAccount inserts or replaces an account.
func (s *MemoryStore) PutAccount(a models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accounts[a.AccountNumber] = a
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = u
}

// PutTransaction inserts or replaces a transaction.
func (s *MemoryStore) PutTransaction(t models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.transactions[t.ID] = t
}

type memoryTx struct {
	data *memoryData
}

func (t *memoryTx) Accounts() AccountRepository { return memoryAccounts{t.data} }
func (t *memoryTx) Transactions() TransactionRepository { return memoryTransactions{t.data} }
func (t *memoryTx) Users() UserRepository { return memoryUsers{t.data} }
func (t *memoryTx) Notifications() NotificationRepository { return memoryNotifications{t.data} }

type memoryAccounts struct{ data *memoryData }

func (r memoryAccounts) Exists(accountNumber string) (bool, error) {
	_, ok := r.data.accounts[accountNumber]
	return ok, nil
}

func (r memoryAccounts) Delete(accountNumber string) error {
	if _, ok := r.data.accounts[accountNumber]; !ok {
		return ErrNotFound
	}
	for _, tr := range r.data.transactions {
		if tr.AccountNumber == accountNumber || (tr.TargetAccount != nil && *tr.TargetAccount == accountNumber) {
			return ErrConstraintViolation
		}
	}
	for _, u := range r.data.users {
		if u.AccountNumber != nil && *u.AccountNumber == accountNumber {
			return ErrConstraintViolation
		}
	}
	delete(r.data.accounts, accountNumber)
	return nil
}

func (r memoryAccounts) List(filter AccountFilter) ([]models.Account, error) {
	accounts := make([]models.Account, 0, len(r.data.accounts))
	query := strings.ToLower(filter.Query)
	for _, a := range r.data.accounts {
		if !filter.IncludeArchived && a.Status == models.AccountArchived {
			continue
		}
		if filter.Query != "" &&
			!strings.Contains(a.AccountNumber, filter.Query) &&
			!strings.Contains(strings.ToLower(a.Name), query) {
			continue
		}
		accounts = append(accounts, a)
	}
	slices.SortFunc(accounts, func(a, b models.Account) int {
		return strings.Compare(a.AccountNumber, b.AccountNumber)
	})
	return accounts, nil
}

type memoryTransactions struct{ data *memoryData }

func (r memoryTransactions) CountBySourceAccount(accountNumber string) (int64, error) {
	var count int64
	for _, tr := range r.data.transactions {
		if tr.AccountNumber == accountNumber {
			count++
		}
	}
	return count, nil
}

func (r memoryTransactions) CountByTargetAccount(accountNumber string) (int64, error) {
	var count int64
	for _, tr := range r.data.transactions {
		if tr.TargetAccount != nil && *tr.TargetAccount == accountNumber {
			count++
		}
	}
	return count, nil
}

type memoryUsers struct{ data *memoryData }

func (r memoryUsers) Exists(id uint) (bool, error) {
	_, ok := r.data.users[id]
	return ok, nil
}

func (r memoryUsers) CountByAccountNumber(accountNumber string) (int64, error) {
	var count int64
	for _, u := range r.data.users {
		if u.AccountNumber != nil && *u.AccountNumber == accountNumber {
			count++
		}
	}
	return count, nil
}

type memoryNotifications struct{ data *memoryData }

func (r memoryNotifications) Create(notification *models.Notification) error {
	r.data.lastID++
	notification.ID = r.data.lastID
	r.data.notifications[notification.ID] = *notification
	return nil
}

func (r memoryNotifications) FindByID(id uint) (*models.Notification, error) {
	n, ok := r.data.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (r memoryNotifications) Update(notification *models.Notification) error {
	stored, ok := r.data.notifications[notification.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = notification.Title
	stored.Body = notification.Body
	stored.Status = notification.Status
	stored.Pinned = notification.Pinned
	stored.UpdatedAt = notification.UpdatedAt
	stored.ReadAt = notification.ReadAt
	r.data.notifications[notification.ID] = stored
	return nil
}

func (r memoryNotifications) Delete(id uint) error {
	if _, ok := r.data.notifications[id]; !ok {
		return ErrNotFound
	}
	delete(r.data.notifications, id)
	return nil
}

func (r memoryNotifications) List(filter NotificationFilter, page PageRequest) (Page[models.Notification], error) {
	query := strings.ToLower(filter.Query)
	matched := make([]models.Notification, 0)
	for _, n := range r.data.notifications {
		if n.RecipientUserID != filter.RecipientUserID {
			continue
		}
		if filter.UnreadOnly && n.Status != models.StatusUnread {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(n.Title), query) &&
			(n.Body == nil || !strings.Contains(strings.ToLower(*n.Body), query)) {
			continue
		}
		matched = append(matched, n)
	}
	slices.SortFunc(matched, func(a, b models.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	result := Page[models.Notification]{
		Items:      make([]models.Notification, 0),
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: int64(len(matched)),
	}
	if start := page.Offset(); start < len(matched) {
		end := min(start+page.Size, len(matched))
		result.Items = append(result.Items, matched[start:end]...)
	}
	return result, nil
}

func (r memoryNotifications) CountUnread(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.data.notifications {
		if n.RecipientUserID == recipientID && n.Status == models.StatusUnread {
			count++
		}
	}
	return count, nil
}

func (r memoryNotifications) MarkAllRead(recipientID uint, now time.Time) (int64, error) {
	var count int64
	for id, n := range r.data.notifications {
		if n.RecipientUserID != recipientID || n.Status != models.StatusUnread {
			continue
		}
		n.MarkRead(now)
		r.data.notifications[id] = n
		count++
	}
	return count, nil
}
