package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

// Store keeps every engine table in process memory. Writes made inside
// InCompetition are buffered and applied together on success.
type Store struct {
	mu sync.RWMutex

	competitions map[string]competition.Competition
	gameweeks    map[string]gameweek.Gameweek
	fixtures     map[string]fixture.Fixture
	rounds       map[string]round.Round
	entries      map[string]entry.Entry
	picks        map[string]pick.Pick
	tiebreaks    map[string]tiebreak.Participant
	exactos      map[string]exacto.Prediction

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		competitions: make(map[string]competition.Competition),
		gameweeks:    make(map[string]gameweek.Gameweek),
		fixtures:     make(map[string]fixture.Fixture),
		rounds:       make(map[string]round.Round),
		entries:      make(map[string]entry.Entry),
		picks:        make(map[string]pick.Pick),
		tiebreaks:    make(map[string]tiebreak.Participant),
		exactos:      make(map[string]exacto.Prediction),
		locks:        make(map[string]*sync.Mutex),
	}
}

// Read runs fn against one snapshot: commits wait until fn returns.
func (s *Store) Read(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx := s.beginLocked(nil)
	return fn(ctx, tx.repositories())
}

func (s *Store) InCompetition(ctx context.Context, competitionID string, fn func(ctx context.Context, repos store.Repositories) error) error {
	lock := s.competitionLock(competitionID)
	lock.Lock()
	defer lock.Unlock()

	tx := s.beginLocked(&s.mu)
	if err := fn(ctx, tx.repositories()); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) competitionLock(competitionID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.locks[competitionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[competitionID] = lock
	}
	return lock
}

type txState struct {
	store *Store

	competitions overlay[competition.Competition]
	gameweeks    overlay[gameweek.Gameweek]
	fixtures     overlay[fixture.Fixture]
	rounds       overlay[round.Round]
	entries      overlay[entry.Entry]
	picks        overlay[pick.Pick]
	tiebreaks    overlay[tiebreak.Participant]
	exactos      overlay[exacto.Prediction]
}

// beginLocked opens a transaction whose base reads take mu. A nil mu means
// the caller already holds the store lock for the whole transaction.
func (s *Store) beginLocked(mu *sync.RWMutex) *txState {
	return &txState{
		store:        s,
		competitions: newOverlay(mu, s.competitions),
		gameweeks:    newOverlay(mu, s.gameweeks),
		fixtures:     newOverlay(mu, s.fixtures),
		rounds:       newOverlay(mu, s.rounds),
		entries:      newOverlay(mu, s.entries),
		picks:        newOverlay(mu, s.picks),
		tiebreaks:    newOverlay(mu, s.tiebreaks),
		exactos:      newOverlay(mu, s.exactos),
	}
}

func (s *Store) commit(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.competitions.apply()
	tx.gameweeks.apply()
	tx.fixtures.apply()
	tx.rounds.apply()
	tx.entries.apply()
	tx.picks.apply()
	tx.tiebreaks.apply()
	tx.exactos.apply()
}

func (tx *txState) repositories() store.Repositories {
	return store.Repositories{
		Competitions: &CompetitionRepository{rows: &tx.competitions},
		Gameweeks:    &GameweekRepository{rows: &tx.gameweeks},
		Fixtures:     &FixtureRepository{rows: &tx.fixtures},
		Rounds:       &RoundRepository{rows: &tx.rounds},
		Entries:      &EntryRepository{rows: &tx.entries},
		Picks:        &PickRepository{rows: &tx.picks},
		Tiebreaks:    &TiebreakRepository{rows: &tx.tiebreaks},
		Exactos:      &ExactoRepository{rows: &tx.exactos},
	}
}

// overlay reads through to a shared table and buffers writes until apply.
// Callers of apply must hold the table's write lock.
type overlay[T any] struct {
	mu      *sync.RWMutex
	base    map[string]T
	pending map[string]T
}

func newOverlay[T any](mu *sync.RWMutex, base map[string]T) overlay[T] {
	return overlay[T]{mu: mu, base: base, pending: make(map[string]T)}
}

func (o *overlay[T]) get(id string) (T, bool) {
	if v, ok := o.pending[id]; ok {
		return v, true
	}

	o.rlock()
	defer o.runlock()
	v, ok := o.base[id]
	return v, ok
}

func (o *overlay[T]) rlock() {
	if o.mu != nil {
		o.mu.RLock()
	}
}

func (o *overlay[T]) runlock() {
	if o.mu != nil {
		o.mu.RUnlock()
	}
}

func (o *overlay[T]) put(id string, v T) {
	o.pending[id] = v
}

func (o *overlay[T]) filter(match func(T) bool) []T {
	o.rlock()
	out := make([]T, 0)
	for id, v := range o.base {
		if _, shadowed := o.pending[id]; shadowed {
			continue
		}
		if match(v) {
			out = append(out, v)
		}
	}
	o.runlock()

	for _, v := range o.pending {
		if match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (o *overlay[T]) apply() {
	for id, v := range o.pending {
		o.base[id] = v
	}
	o.pending = make(map[string]T)
}
