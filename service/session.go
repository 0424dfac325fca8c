package service

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/nav"
)

// Session is the explicit per-login state: created at sign-in, dropped at
// sign-out or when it expires.
type Session struct {
	ID        string
	Profile   models.Profile
	Nav       *nav.Navigator
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionRegistry keeps live sessions in memory. Restarting the server signs everyone out.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{cache: cache.New(ttl, 10*time.Minute)}
}

// Put stores s for ttl. A non-positive ttl stores nothing.
func (r *SessionRegistry) Put(s *Session, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	r.cache.Set(s.ID, s, ttl)
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (r *SessionRegistry) Delete(id string) {
	r.cache.Delete(id)
}

func (r *SessionRegistry) Count() int {
	return r.cache.ItemCount()
}
