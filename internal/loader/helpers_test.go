package loader

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/user/page-loader/internal/adapter/httpfetch"
	"go.uber.org/zap"
)

const (
	pageURL       = "https://ru.hexlet.io/courses/"
	pageName      = "ru-hexlet-io-courses.html"
	assetsDirName = "ru-hexlet-io-courses_files"
)

const coursesHTML = `<!DOCTYPE html>
<html lang="ru">
  <head>
    <meta charset="utf-8">
    <title>Курсы по программированию Хекслет</title>
    <link rel="stylesheet" media="all" href="https://cdn2.hexlet.io/assets/menu.css">
    <link rel="stylesheet" media="all" href="/assets/application.css" />
    <link href="/courses" rel="canonical">
  </head>
  <body>
    <img src="/assets/professions/nodejs.png" alt="Иконка профессии Node.js-программист" />
    <h3>
      <a href="/professions/nodejs">Node.js-программист</a>
    </h3>
    <script src="https://js.stripe.com/v3/"></script>
    <script src="https://ru.hexlet.io/packs/js/runtime.js"></script>
  </body>
</html>`

// site serves a fixed set of paths and counts requests per path.
type site struct {
	mu     sync.Mutex
	bodies map[string]string
	hits   map[string]int
}

func newSite(bodies map[string]string) *site {
	return &site{bodies: bodies, hits: make(map[string]int)}
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	s.mu.Lock()
	s.hits[key]++
	body, ok := s.bodies[key]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (s *site) hitCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func hexletSite() *site {
	return newSite(map[string]string{
		"/courses/":                      coursesHTML,
		"/courses":                       coursesHTML,
		"/assets/application.css":        "body { color: red; }",
		"/assets/professions/nodejs.png": "\x89PNG\r\n\x1a\nnodejs",
		"/packs/js/runtime.js":           "console.log('runtime');",
	})
}

// redirectTransport sends every request to target regardless of its host,
// so pages can keep their real URLs in tests.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func newTestLoader(t *testing.T, h http.Handler, logger *zap.Logger, opts ...Option) *Loader {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Transport: redirectTransport{target: target}}
	return New(httpfetch.NewWithClient(client, logger), logger, opts...)
}
