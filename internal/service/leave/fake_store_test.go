package leave

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// fakeDB is an in-memory stand-in for the Postgres repositories. fakeTx
// serializes transactions and restores a snapshot when fn fails, which is
// what lets tests assert that failed operations leave no partial state.
type fakeDB struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[string]user.User
	requests map[string]leave.LeaveRequest
	comments []leave.Comment
	entries  []leave.BalanceEntry

	appendErr error
	listErr   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    make(map[string]user.User),
		requests: make(map[string]leave.LeaveRequest),
	}
}

type fakeSnapshot struct {
	users    map[string]user.User
	requests map[string]leave.LeaveRequest
	comments []leave.Comment
	entries  []leave.BalanceEntry
}

func (db *fakeDB) snapshot() fakeSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := fakeSnapshot{
		users:    make(map[string]user.User, len(db.users)),
		requests: make(map[string]leave.LeaveRequest, len(db.requests)),
		comments: append([]leave.Comment(nil), db.comments...),
		entries:  append([]leave.BalanceEntry(nil), db.entries...),
	}
	for k, v := range db.users {
		s.users[k] = v
	}
	for k, v := range db.requests {
		s.requests[k] = v
	}
	return s
}

func (db *fakeDB) restore(s fakeSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.requests, db.comments, db.entries = s.users, s.requests, s.comments, s.entries
}

// addUser seeds an active user with allocation entries for the given balances.
func (db *fakeDB) addUser(role user.Role, balances map[leave.LeaveType]int) user.Actor {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := user.User{
		ID:       uuid.NewString(),
		Name:     "User " + string(role),
		Email:    uuid.NewString() + "@ezleave.test",
		Role:     role,
		IsActive: true,
	}
	db.users[u.ID] = u
	for t, days := range balances {
		db.entries = append(db.entries, leave.BalanceEntry{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			LeaveType: t,
			Delta:     days,
			Kind:      leave.EntryKindAllocation,
		})
	}
	return u.Actor()
}

func (db *fakeDB) balance(userID string, t leave.LeaveType) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	total := 0
	for _, e := range db.entries {
		if e.UserID == userID && e.LeaveType == t {
			total += e.Delta
		}
	}
	return total
}

func (db *fakeDB) request(id string) leave.LeaveRequest {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.requests[id]
}

func (db *fakeDB) requestCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.requests)
}

func (db *fakeDB) entryCount(kind leave.EntryKind) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, e := range db.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// putRequest stores a request directly, bypassing Submit.
func (db *fakeDB) putRequest(r leave.LeaveRequest) leave.LeaveRequest {
	db.mu.Lock()
	defer db.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.TotalDays == 0 {
		r.TotalDays = leave.CountDays(r.StartDate, r.EndDate)
	}
	db.requests[r.ID] = r
	return r
}

type fakeTx struct {
	db *fakeDB
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.db.txMu.Lock()
	defer f.db.txMu.Unlock()

	snap := f.db.snapshot()
	if err := fn(ctx); err != nil {
		f.db.restore(snap)
		return err
	}
	return nil
}

type fakeIdentityStore struct {
	db *fakeDB
}

func (f *fakeIdentityStore) GetByID(ctx context.Context, id string) (user.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeIdentityStore) GetByIDForUpdate(ctx context.Context, id string) (user.User, error) {
	return f.GetByID(ctx, id)
}

type fakeRequestRepo struct {
	db *fakeDB
}

func (f *fakeRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.requests[request.ID] = request
	return request, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequestRepo) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.db.requests {
		if r.EmployeeID != employeeID || !r.Overlaps(start, end) {
			continue
		}
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.requests[request.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	f.db.requests[request.ID] = request
	return nil
}

func (f *fakeRequestRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.listErr != nil {
		return nil, 0, f.db.listErr
	}
	var matched []leave.LeaveRequest
	for _, r := range f.db.requests {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.LeaveType != nil && r.LeaveType != *filter.LeaveType {
			continue
		}
		if filter.From != nil && r.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.StartDate.After(*filter.To) {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AppliedDate.After(matched[j].AppliedDate)
	})
	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []leave.LeaveRequest{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeRequestRepo) HasActiveEndingOnOrAfter(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.requests {
		if r.EmployeeID == employeeID && r.Status.IsActive() && !r.EndDate.Before(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) inStats(r leave.LeaveRequest, filter leave.StatsFilter) bool {
	if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
		return false
	}
	return !r.AppliedDate.Before(filter.From) && r.AppliedDate.Before(filter.To)
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context, filter leave.StatsFilter) ([]leave.StatusStat, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	index := make(map[leave.LeaveRequestStatus]*leave.StatusStat)
	var out []leave.StatusStat
	for _, r := range f.db.requests {
		if !f.inStats(r, filter) {
			continue
		}
		st, ok := index[r.Status]
		if !ok {
			st = &leave.StatusStat{Status: r.Status}
			index[r.Status] = st
		}
		st.Count++
		st.TotalDays += int64(r.TotalDays)
	}
	for _, st := range index {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeRequestRepo) CountByType(ctx context.Context, filter leave.StatsFilter) ([]leave.TypeStat, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	index := make(map[leave.LeaveType]*leave.TypeStat)
	var out []leave.TypeStat
	for _, r := range f.db.requests {
		if !f.inStats(r, filter) {
			continue
		}
		tt, ok := index[r.LeaveType]
		if !ok {
			tt = &leave.TypeStat{LeaveType: r.LeaveType}
			index[r.LeaveType] = tt
		}
		tt.Count++
		tt.TotalDays += int64(r.TotalDays)
	}
	for _, tt := range index {
		out = append(out, *tt)
	}
	return out, nil
}

type fakeCommentRepo struct {
	db *fakeDB
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment leave.Comment) (leave.Comment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.comments = append(f.db.comments, comment)
	return comment, nil
}

func (f *fakeCommentRepo) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]leave.Comment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []leave.Comment
	for _, c := range f.db.comments {
		if c.LeaveRequestID == leaveRequestID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeLedger struct {
	db *fakeDB
}

func (f *fakeLedger) Append(ctx context.Context, entries ...leave.BalanceEntry) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.appendErr != nil {
		return f.db.appendErr
	}
	for _, e := range entries {
		if e.LeaveRequestID == nil {
			continue
		}
		for _, existing := range f.db.entries {
			if existing.LeaveRequestID != nil && *existing.LeaveRequestID == *e.LeaveRequestID && existing.Kind == e.Kind {
				return leave.ErrDuplicateEntry
			}
		}
	}
	f.db.entries = append(f.db.entries, entries...)
	return nil
}

func (f *fakeLedger) Balance(ctx context.Context, userID string, leaveType leave.LeaveType) (int, error) {
	return f.db.balance(userID, leaveType), nil
}

func (f *fakeLedger) Balances(ctx context.Context, userID string) (leave.Balances, error) {
	entries, err := f.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return leave.SumEntries(entries), nil
}

func (f *fakeLedger) ListEntries(ctx context.Context, userID string) ([]leave.BalanceEntry, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []leave.BalanceEntry
	for _, e := range f.db.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

var errLedgerDown = errors.New("ledger unavailable")
