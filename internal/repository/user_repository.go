package repository

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// UserRepo manages the `users` collection.  The store holds the
// whole collection as one value, so mutations are read-modify-write
// under a process-local mutex; across processes the store's
// last-writer-wins semantics apply.
type UserRepo struct {
	st store.Store
	mu sync.Mutex
}

func NewUserRepo(st store.Store) *UserRepo { return &UserRepo{st: st} }

// load returns the collection, substituting the empty default when
// the key is missing or corrupt.  A corrupt payload is logged, not
// surfaced; the UI degrades instead of crashing.
func (r *UserRepo) load(ctx context.Context) []model.User {
	var users []model.User
	if _, err := r.st.Get(ctx, store.KeyUsers, &users); err != nil {
		log.Printf("users: read failed, using empty collection: %v", err)
		return nil
	}
	return users
}

// Create appends a new user.  Email is normalized to lower case and
// must be unique in the collection regardless of other fields.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	users := r.load(ctx)
	for _, existing := range users {
		if existing.Email == u.Email {
			return model.User{}, ErrEmailExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	users = append(users, u)
	if err := r.st.Set(ctx, store.KeyUsers, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.load(ctx) {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// EmailTaken reports whether the email is already registered.
func (r *UserRepo) EmailTaken(ctx context.Context, email string) bool {
	_, err := r.GetByEmail(ctx, email)
	return err == nil
}

// List returns every user record, password hashes stripped.
func (r *UserRepo) List(ctx context.Context) []model.User {
	users := r.load(ctx)
	out := make([]model.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out
}

// TouchLastLogin records a successful login time on the user.
func (r *UserRepo) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	users := r.load(ctx)
	for i := range users {
		if users[i].Email == email {
			users[i].LastLogin = &at
			return r.st.Set(ctx, store.KeyUsers, users)
		}
	}
	return ErrUserNotFound
}
