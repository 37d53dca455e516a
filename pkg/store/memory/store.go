// Package memory is an in-process domain.Store used by tests and the
// STORE=memory demo mode. Data is lost when the process exits.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

type row[T any] struct {
	v   T
	seq int64
}

type table[T any] map[string]row[T]

// sorted returns the rows matching keep ordered by insertion sequence
func (t table[T]) sorted(keep func(T) bool) []row[T] {
	out := make([]row[T], 0, len(t))
	for _, r := range t {
		if keep == nil || keep(r.v) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

type data struct {
	users     table[models.User]
	accounts  table[models.InstagramAccount]
	campaigns table[models.Campaign]
	leads     table[models.Lead]
	messages  table[models.Message]
	seq       int64
}

func newData() *data {
	return &data{
		users:     table[models.User]{},
		accounts:  table[models.InstagramAccount]{},
		campaigns: table[models.Campaign]{},
		leads:     table[models.Lead]{},
		messages:  table[models.Message]{},
	}
}

func (d *data) clone() *data {
	return &data{
		users:     maps.Clone(d.users),
		accounts:  maps.Clone(d.accounts),
		campaigns: maps.Clone(d.campaigns),
		leads:     maps.Clone(d.leads),
		messages:  maps.Clone(d.messages),
		seq:       d.seq,
	}
}

func (d *data) next() int64 {
	d.seq++
	return d.seq
}

type state struct {
	mu   sync.RWMutex // guards d
	txMu sync.Mutex   // held for a whole transaction, or a single write outside one
	d    *data
}

// Store implements domain.Store with maps guarded by mutexes
type Store struct {
	st   *state
	inTx bool
}

var _ domain.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{st: &state{d: newData()}}
}

func (s *Store) Users() domain.UserRepository         { return &userRepo{s} }
func (s *Store) Accounts() domain.AccountRepository   { return &accountRepo{s} }
func (s *Store) Campaigns() domain.CampaignRepository { return &campaignRepo{s} }
func (s *Store) Leads() domain.LeadRepository         { return &leadRepo{s} }
func (s *Store) Messages() domain.MessageRepository   { return &messageRepo{s} }

// WithTx serializes fn against every other transaction and write. If fn
// fails, the data is restored to the state it had when the transaction began.
func (s *Store) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.RLock()
	snapshot := s.st.d.clone()
	s.st.mu.RUnlock()

	if err := fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.mu.Lock()
		s.st.d = snapshot
		s.st.mu.Unlock()
		return err
	}
	return nil
}

// write runs fn with exclusive access to the data
func (s *Store) write(fn func(d *data) error) error {
	if !s.inTx {
		s.st.txMu.Lock()
		defer s.st.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(s.st.d)
}

// read runs fn with shared access to the data
func (s *Store) read(fn func(d *data) error) error {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return fn(s.st.d)
}
