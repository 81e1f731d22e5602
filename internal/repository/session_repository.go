package repository

import (
	"context"
	"log"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// SessionRepo manages the `currentUser` record: the password-stripped
// profile of the authenticated user.  There is exactly one such
// record; a later login overwrites it (last writer wins) and logout
// removes it.  Access tokens are only honored while the record they
// name is present, so removal fails closed.
type SessionRepo struct {
	st store.Store
}

func NewSessionRepo(st store.Store) *SessionRepo { return &SessionRepo{st: st} }

// Establish stores the session for the given user.
func (r *SessionRepo) Establish(ctx context.Context, s model.Session) error {
	s.User = s.User.Public()
	return r.st.Set(ctx, store.KeyCurrentUser, s)
}

// Current returns the active session, if any.
func (r *SessionRepo) Current(ctx context.Context) (model.Session, bool) {
	var s model.Session
	found, err := r.st.Get(ctx, store.KeyCurrentUser, &s)
	if err != nil {
		log.Printf("session: read failed, treating as logged out: %v", err)
		return model.Session{}, false
	}
	return s, found
}

// Clear removes the session record.
func (r *SessionRepo) Clear(ctx context.Context) error {
	return r.st.Delete(ctx, store.KeyCurrentUser)
}
