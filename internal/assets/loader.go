package assets

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Loader retrieves remote artifacts through the cache, coalescing concurrent
// requests for the same URL into a single fetch.
type Loader struct {
	cache  *Cache
	client *http.Client

	mu       sync.Mutex
	inflight map[string]*fetch
}

// fetch is one in-flight retrieval shared by every caller interested in the
// same URL. refs counts the interested callers; the underlying request is
// cancelled when the last one withdraws.
type fetch struct {
	refs   int
	cancel context.CancelFunc
	done   chan struct{}
	data   []byte
	ok     bool
}

func NewLoader(cache *Cache) *Loader {
	return &Loader{
		cache:    cache,
		client:   &http.Client{Timeout: 15 * time.Second},
		inflight: map[string]*fetch{},
	}
}

// Load returns the artifact for url, serving from the cache when possible.
// Cancelling ctx withdraws this caller's interest without disturbing other
// waiters. Fetch and decode errors yield ok=false; they are not retried.
func (l *Loader) Load(ctx context.Context, url string) ([]byte, bool) {
	if data, ok := l.cache.Get(url); ok {
		return data, true
	}

	l.mu.Lock()
	f, ok := l.inflight[url]
	if !ok {
		fctx, cancel := context.WithCancel(context.Background())
		f = &fetch{cancel: cancel, done: make(chan struct{})}
		l.inflight[url] = f
		go l.run(fctx, url, f)
	}
	f.refs++
	l.mu.Unlock()

	select {
	case <-f.done:
		l.release(url, f)
		return f.data, f.ok
	case <-ctx.Done():
		l.release(url, f)
		return nil, false
	}
}

// release drops one caller's interest in f.
func (l *Loader) release(url string, f *fetch) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.refs--
	if f.refs > 0 {
		return
	}
	f.cancel()
	if l.inflight[url] == f {
		delete(l.inflight, url)
	}
}

func (l *Loader) run(ctx context.Context, url string, f *fetch) {
	defer close(f.done)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("loader: bad url %s: %v", url, err)
		return
	}
	resp, err := l.client.Do(req)
	if err != nil {
		log.Printf("loader: fetch %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("loader: fetch %s returned %d", url, resp.StatusCode)
		return
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		log.Printf("loader: read %s failed: %v", url, err)
		return
	}
	l.cache.Put(url, data)
	f.data = data
	f.ok = true
}
