package bot

import (
	"sync"
	"time"
)

// maxTrackedPosts bounds the capture posts kept for reaction tracking.
const maxTrackedPosts = 1000

type channelKey struct {
	guild   string
	channel string
}

type userKey struct {
	guild   string
	channel string
	user    string
}

// pending is a capture candidate waiting for its author's yes or no.
type pending struct {
	items  []string
	source string
	at     time.Time
}

// draft is the last taskify result for one author in one channel.
type draft struct {
	tasks  []string
	source string
	at     time.Time
}

// todoPost is a capture post whose ✅ reaction completes its cards.
type todoPost struct {
	guild   string
	cardIDs []string
	done    bool
	created time.Time
}

// state is the in-process, never persisted side of the bot. Entries with a
// TTL expire lazily when they are next looked up.
type state struct {
	mu      sync.Mutex
	pending map[userKey]*pending
	drafts  map[userKey]*draft
	posts   map[string]*todoPost
	lastAI  map[channelKey]time.Time
	names   map[string]map[string]string
}

func newState() *state {
	return &state{
		pending: map[userKey]*pending{},
		drafts:  map[userKey]*draft{},
		posts:   map[string]*todoPost{},
		lastAI:  map[channelKey]time.Time{},
		names:   map[string]map[string]string{},
	}
}

func (s *state) setPending(k userKey, p *pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[k] = p
}

// peekPending returns the live candidate for k. An expired candidate is
// dropped and reported as absent.
func (s *state) peekPending(k userKey, now time.Time, ttl time.Duration) *pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[k]
	if !ok {
		return nil
	}
	if now.Sub(p.at) > ttl {
		delete(s.pending, k)
		return nil
	}
	return p
}

func (s *state) dropPending(k userKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, k)
}

func (s *state) setDraft(k userKey, d *draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[k] = d
}

func (s *state) getDraft(k userKey, now time.Time, ttl time.Duration) *draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[k]
	if !ok {
		return nil
	}
	if now.Sub(d.at) > ttl {
		delete(s.drafts, k)
		return nil
	}
	return d
}

func (s *state) dropDraft(k userKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, k)
}

func (s *state) trackPost(id string, p *todoPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[id] = p
	if len(s.posts) <= maxTrackedPosts {
		return
	}
	var (
		oldestID string
		oldest   time.Time
	)
	for pid, tp := range s.posts {
		if oldestID == "" || tp.created.Before(oldest) {
			oldestID, oldest = pid, tp.created
		}
	}
	delete(s.posts, oldestID)
}

// claimPost marks an open post done and returns it. A missing or already
// completed post returns nil.
func (s *state) claimPost(id string) *todoPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok || p.done {
		return nil
	}
	p.done = true
	return p
}

func (s *state) cooledDown(k channelKey, now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastAI[k]
	return !ok || now.Sub(last) >= cooldown
}

func (s *state) markAI(k channelKey, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAI[k] = now
}

func (s *state) rememberName(guild, user, name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.names[guild]
	if !ok {
		g = map[string]string{}
		s.names[guild] = g
	}
	g[user] = name
}

func (s *state) name(guild, user string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names[guild][user]
}
