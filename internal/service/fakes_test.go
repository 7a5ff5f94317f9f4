package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"lending_service/internal/models"
	"lending_service/internal/repository"
)

type fakeUserRepo struct {
	users  map[string]models.User
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) Insert(ctx context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	u.ID = "u" + strconv.Itoa(f.nextID)
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, f.err
}

func (f *fakeUserRepo) Get(ctx context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, p models.UserPatch) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	delete(f.users, id)
	return u, nil
}

type fakeItemRepo struct {
	items     map[string]models.Item
	nextID    int
	err       error
	deleteErr error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]models.Item{}}
}

func (f *fakeItemRepo) Insert(ctx context.Context, it *models.Item) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	it.ID = "i" + strconv.Itoa(f.nextID)
	f.items[it.ID] = *it
	return nil
}

func (f *fakeItemRepo) List(ctx context.Context) ([]models.Item, error) {
	out := make([]models.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, f.err
}

func (f *fakeItemRepo) Get(ctx context.Context, id string) (models.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return models.Item{}, repository.ErrNotFound
	}
	return it, nil
}

func (f *fakeItemRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	it, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	if it.Fields == nil {
		it.Fields = map[string]any{}
	}
	for k, v := range fields {
		it.Fields[k] = v
	}
	f.items[id] = it
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) DeleteAll(ctx context.Context) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := int64(len(f.items))
	f.items = map[string]models.Item{}
	return n, nil
}

func (f *fakeItemRepo) MarkBorrowed(ctx context.Context, id, borrowerID string, at time.Time) (models.Item, error) {
	if f.err != nil {
		return models.Item{}, f.err
	}
	it, ok := f.items[id]
	if !ok || it.Borrowed {
		return models.Item{}, repository.ErrNotFound
	}
	it.Borrowed = true
	it.BorrowerID = &borrowerID
	it.LoanDate = &at
	it.ReturnDate = nil
	f.items[id] = it
	return it, nil
}

func (f *fakeItemRepo) MarkReturned(ctx context.Context, id string, at time.Time) (models.Item, error) {
	if f.err != nil {
		return models.Item{}, f.err
	}
	it, ok := f.items[id]
	if !ok || !it.Borrowed {
		return models.Item{}, repository.ErrNotFound
	}
	it.Borrowed = false
	it.BorrowerID = nil
	it.ReturnDate = &at
	f.items[id] = it
	return it, nil
}

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	// captured inputs
	gotCtx  context.Context
	gotFrom time.Time
	gotTo   time.Time
	gotType string

	// configured outputs
	events    []models.LendingEvent
	err       error
	appendErr error

	appended []models.LendingEvent
	calls    int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.LendingEvent, error) {
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.LendingEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakePublisher struct {
	published []models.LendingEvent
	err       error
	closed    bool
}

func (f *fakePublisher) Publish(ctx context.Context, e models.LendingEvent) error {
	f.published = append(f.published, e)
	return f.err
}

func (f *fakePublisher) Close() { f.closed = true }

var errDBDown = errors.New("db down")
