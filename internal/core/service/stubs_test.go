package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sharedplaces/places-api/internal/core/domain"
	"github.com/sharedplaces/places-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store with snapshot transactions
// ---------------------------------------------------------------------------

// memStore backs both repository stubs so a transaction can roll back the
// place and user collections together.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	places map[string]*domain.Place
	seq    int

	createPlaceErr error
	addPlaceErr    error
	removePlaceErr error
	deletePlaceErr error
	createUserErr  error

	txCount int
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*domain.User),
		places: make(map[string]*domain.Place),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Places = append([]string(nil), u.Places...)
	return &clone
}

func clonePlace(p *domain.Place) *domain.Place {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) seedUser(id, email string) *domain.User {
	u := &domain.User{ID: id, Name: id, Email: email, Places: []string{}}
	s.users[id] = cloneUser(u)
	return u
}

func (s *memStore) seedPlace(id, creator string) *domain.Place {
	p := &domain.Place{
		ID:          id,
		Title:       "Seeded",
		Description: "Seeded place",
		Address:     "Somewhere 1",
		Image:       "uploads/images/" + id + ".png",
		Creator:     creator,
	}
	s.places[id] = clonePlace(p)
	if u, ok := s.users[creator]; ok {
		u.Places = append(u.Places, id)
	}
	return p
}

// WithinTransaction snapshots both collections and restores them when fn fails.
func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.txCount++
	users := make(map[string]*domain.User, len(s.users))
	for k, v := range s.users {
		users[k] = cloneUser(v)
	}
	places := make(map[string]*domain.Place, len(s.places))
	for k, v := range s.places {
		places[k] = clonePlace(v)
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.places = users, places
		s.mu.Unlock()
		return err
	}
	return nil
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createUserErr != nil {
		return r.s.createUserErr
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	user.ID = r.s.nextID("user")
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r memUserRepo) AddPlace(_ context.Context, userID, placeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.addPlaceErr != nil {
		return r.s.addPlaceErr
	}
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !u.OwnsPlace(placeID) {
		u.Places = append(u.Places, placeID)
	}
	return nil
}

func (r memUserRepo) RemovePlace(_ context.Context, userID, placeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.removePlaceErr != nil {
		return r.s.removePlaceErr
	}
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := u.Places[:0]
	for _, id := range u.Places {
		if id != placeID {
			kept = append(kept, id)
		}
	}
	u.Places = kept
	return nil
}

type memPlaceRepo struct{ s *memStore }

func (r memPlaceRepo) FindByID(_ context.Context, id string) (*domain.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.places[id]
	if !ok {
		return nil, domain.ErrPlaceNotFound
	}
	return clonePlace(p), nil
}

func (r memPlaceRepo) FindByCreator(_ context.Context, userID string) ([]*domain.Place, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Place
	for _, p := range r.s.places {
		if p.Creator == userID {
			out = append(out, clonePlace(p))
		}
	}
	return out, nil
}

func (r memPlaceRepo) Create(_ context.Context, place *domain.Place) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createPlaceErr != nil {
		return r.s.createPlaceErr
	}
	place.ID = r.s.nextID("place")
	r.s.places[place.ID] = clonePlace(place)
	return nil
}

func (r memPlaceRepo) Update(_ context.Context, place *domain.Place) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.places[place.ID]; !ok {
		return domain.ErrPlaceNotFound
	}
	r.s.places[place.ID] = clonePlace(place)
	return nil
}

func (r memPlaceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.deletePlaceErr != nil {
		return r.s.deletePlaceErr
	}
	if _, ok := r.s.places[id]; !ok {
		return domain.ErrPlaceNotFound
	}
	delete(r.s.places, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubGeocoder struct {
	known map[string]domain.Location
	err   error
	calls int
}

func (g *stubGeocoder) Resolve(_ context.Context, address string) (domain.Location, error) {
	g.calls++
	if g.err != nil {
		return domain.Location{}, g.err
	}
	loc, ok := g.known[address]
	if !ok {
		return domain.Location{}, domain.ErrGeocoding
	}
	return loc, nil
}

type stubFiles struct {
	stored   []string
	deleted  []string
	storeErr error
}

func (f *stubFiles) Store(_ context.Context, upload ports.Upload) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	ref := fmt.Sprintf("uploads/images/%d-%s", len(f.stored)+1, upload.Filename)
	f.stored = append(f.stored, ref)
	return ref, nil
}

func (f *stubFiles) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

type stubCleaner struct {
	discarded []string
}

func (c *stubCleaner) Discard(ref string) {
	c.discarded = append(c.discarded, ref)
}

type stubPublisher struct {
	events []domain.PlaceEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, event domain.PlaceEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errBoom = errors.New("connection reset by peer")
