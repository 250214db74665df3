package dashboard

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/kalaiprof897-eng/management/pkg/metrics"
)

// RateLimiterStore keeps one limiter per user and route: key -> rate limiter
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func limiterKey(userID, route string) string {
	return userID + "|" + route
}

func (s *RateLimiterStore) GetLimiter(userID, route string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := limiterKey(userID, route)
	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[key] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(userID, route string, r rate.Limit, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[limiterKey(userID, route)] = rate.NewLimiter(r, burst)
}

// Allow takes one token and counts the rejection when there is none.
func (s *RateLimiterStore) Allow(userID, route string) bool {
	if s.GetLimiter(userID, route).Allow() {
		return true
	}
	metrics.RecordRateLimit(route)
	return false
}

// Forget drops every limiter of a signed out user.
func (s *RateLimiterStore) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := userID + "|"
	for key := range s.limiters {
		if strings.HasPrefix(key, prefix) {
			delete(s.limiters, key)
		}
	}
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
