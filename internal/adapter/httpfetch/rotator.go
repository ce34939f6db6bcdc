package httpfetch

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultUserAgent is sent when no user agents are configured.
const DefaultUserAgent = "page-loader/1.0 (+https://github.com/user/page-loader)"

// Rotator hands out proxies sequentially and user agents at random.
type Rotator struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
	rnd        *rand.Rand
}

func NewRotator(proxies, userAgents []string) *Rotator {
	if len(userAgents) == 0 {
		userAgents = []string{DefaultUserAgent}
	}
	return &Rotator{
		proxies:    proxies,
		userAgents: userAgents,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Proxy returns the next proxy URL, or "" when none are configured.
func (r *Rotator) Proxy() string {
	if len(r.proxies) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	proxy := r.proxies[r.proxyIndex]
	r.proxyIndex = (r.proxyIndex + 1) % len(r.proxies)
	return proxy
}

// UserAgent returns a random configured user agent.
func (r *Rotator) UserAgent() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userAgents[r.rnd.Intn(len(r.userAgents))]
}
