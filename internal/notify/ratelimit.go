package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when an alert for the recipient was suppressed.
var ErrRateLimited = errors.New("security alert rate limited")

// idleAfter is how long a recipient's bucket takes to refill completely.
// Past that point the entry carries no state and can be dropped.
const idleAfter = time.Hour

type recipientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimited caps how many alerts a single address receives per hour.
type RateLimited struct {
	next      Notifier
	perHour   int
	now       func() time.Time
	mu        sync.Mutex
	limiters  map[string]*recipientLimiter
	lastSweep time.Time
}

func NewRateLimited(next Notifier, perHour int) *RateLimited {
	return &RateLimited{
		next:     next,
		perHour:  perHour,
		now:      time.Now,
		limiters: make(map[string]*recipientLimiter),
	}
}

func (r *RateLimited) allow(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= idleAfter {
		r.sweep(now)
	}

	l, ok := r.limiters[email]
	if !ok {
		l = &recipientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(r.perHour)), r.perHour),
		}
		r.limiters[email] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// sweep drops recipients that have been quiet long enough for their bucket
// to be full again. Caller holds mu.
func (r *RateLimited) sweep(now time.Time) {
	for email, l := range r.limiters {
		if now.Sub(l.lastSeen) >= idleAfter {
			delete(r.limiters, email)
		}
	}
	r.lastSweep = now
}

func (r *RateLimited) NewDeviceLogin(ctx context.Context, a NewDeviceAlert) error {
	if !r.allow(a.Email) {
		return ErrRateLimited
	}
	return r.next.NewDeviceLogin(ctx, a)
}
