package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contentforge/wxrimport/internal/storage"
)

// DefaultConcurrency is the media worker pool size when none is configured.
const DefaultConcurrency = 4

// DefaultFetchTimeout bounds a single remote media fetch.
const DefaultFetchTimeout = 30 * time.Second

// maxAssetSize caps a single fetched asset at 512MB.
const maxAssetSize = 512 << 20

// Options configures a Resolver.
type Options struct {
	// AllowedHosts is the fetch allow-list; entries may be bare domains or
	// full URLs. Subdomains of an entry are allowed.
	AllowedHosts []string

	// Concurrency is the worker pool size for fetch/upload work.
	Concurrency int

	// FetchTimeout bounds each remote fetch.
	FetchTimeout time.Duration

	// LocalUploadsDir and SourceRootURL together enable local-copy mode:
	// URLs under SourceRootURL are read from LocalUploadsDir instead of
	// fetched over the network.
	LocalUploadsDir string
	SourceRootURL   string

	// KeyPrefix is prepended to content-addressed storage keys.
	KeyPrefix string
}

// Stats are cumulative resolver counters, safe to read after ResolveAll.
type Stats struct {
	Fetched    int64 // remote fetches performed
	Copied     int64 // local-copy reads performed
	Uploaded   int64 // objects stored
	ReusedHash int64 // uploads skipped because identical bytes were already stored
	Unresolved int64 // URLs left unresolved (failure or policy)
}

// Resolver relocates media into object storage. Failures are deliberately
// soft: a URL that cannot be fetched or stored is left unresolved and the
// run continues.
type Resolver struct {
	store  storage.Store
	client *http.Client
	cache  *Cache
	opts   Options

	fetched    atomic.Int64
	copied     atomic.Int64
	uploaded   atomic.Int64
	reusedHash atomic.Int64
	unresolved atomic.Int64
}

// NewResolver builds a Resolver sharing the given per-run cache.
func NewResolver(store storage.Store, cache *Cache, opts Options) *Resolver {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "media"
	}
	opts.AllowedHosts = NormalizeHosts(opts.AllowedHosts)

	return &Resolver{
		store:  store,
		client: &http.Client{Timeout: opts.FetchTimeout},
		cache:  cache,
		opts:   opts,
	}
}

// Stats returns a snapshot of the resolver counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		Fetched:    r.fetched.Load(),
		Copied:     r.copied.Load(),
		Uploaded:   r.uploaded.Load(),
		ReusedHash: r.reusedHash.Load(),
		Unresolved: r.unresolved.Load(),
	}
}

// ResolveAll relocates the given raw URLs with bounded concurrency and
// returns the raw-to-new mapping for every URL whose canonical form
// resolved. Unresolved URLs are simply absent from the mapping.
func (r *Resolver) ResolveAll(ctx context.Context, rawURLs []string) Mapping {
	canonOf := make(map[string]string, len(rawURLs))
	canonSet := make(map[string]bool, len(rawURLs))
	for _, raw := range rawURLs {
		canon := CanonicalURL(raw)
		canonOf[raw] = canon
		canonSet[canon] = true
	}

	g := new(errgroup.Group)
	g.SetLimit(r.opts.Concurrency)
	for canon := range canonSet {
		canon := canon
		g.Go(func() error {
			r.Resolve(ctx, canon)
			return nil
		})
	}
	// Workers never return errors; failures degrade to unresolved URLs.
	_ = g.Wait()

	mapping := make(Mapping)
	for raw, canon := range canonOf {
		if newURL, ok := r.cache.lookupURL(canon); ok {
			mapping[raw] = newURL
		}
	}
	return mapping
}

// Resolve relocates one canonical URL, deduplicating both completed and
// in-flight work through the cache.
func (r *Resolver) Resolve(ctx context.Context, canonical string) (string, bool) {
	if newURL, ok := r.cache.lookupURL(canonical); ok {
		return newURL, true
	}

	// Collapse concurrent requests for the same canonical URL into one
	// fetch+upload.
	_, _, _ = r.cache.group.Do(canonical, func() (any, error) {
		r.resolveOnce(ctx, canonical)
		return nil, nil
	})

	return r.cache.lookupURL(canonical)
}

func (r *Resolver) resolveOnce(ctx context.Context, canonical string) {
	if _, ok := r.cache.lookupURL(canonical); ok {
		return
	}

	data, contentType, ok := r.fetch(ctx, canonical)
	if !ok {
		r.unresolved.Add(1)
		return
	}

	sum := sha256.Sum256(data)
	key := path.Join(r.opts.KeyPrefix, hex.EncodeToString(sum[:])+Ext(canonical))

	// Identical bytes referenced under a different URL reuse the stored
	// object instead of uploading a duplicate.
	if publicURL, ok := r.cache.lookupKey(key); ok {
		r.reusedHash.Add(1)
		r.cache.storeURL(canonical, publicURL)
		return
	}

	publicURL, err := r.store.Put(ctx, key, data, contentType)
	if err != nil {
		if !errors.Is(err, storage.ErrDisabled) {
			slog.Warn("media upload failed", "url", canonical, "error", err)
		}
		r.unresolved.Add(1)
		return
	}

	r.uploaded.Add(1)
	r.cache.storeKey(key, publicURL)
	r.cache.storeURL(canonical, publicURL)
}

// fetch obtains the asset bytes via local copy or remote fetch. A false
// return means the URL stays unresolved.
func (r *Resolver) fetch(ctx context.Context, canonical string) ([]byte, string, bool) {
	if r.opts.LocalUploadsDir != "" && r.opts.SourceRootURL != "" &&
		strings.HasPrefix(canonical, r.opts.SourceRootURL) {
		return r.readLocal(canonical)
	}

	if !HostAllowed(canonical, r.opts.AllowedHosts) {
		slog.Debug("media host not in allow-list", "url", canonical)
		return nil, "", false
	}

	return r.fetchRemote(ctx, canonical)
}

// readLocal resolves a source-site URL against the local uploads directory.
func (r *Resolver) readLocal(canonical string) ([]byte, string, bool) {
	rel := strings.TrimPrefix(canonical, r.opts.SourceRootURL)
	rel = strings.TrimLeft(rel, "/")
	local := filepath.Join(r.opts.LocalUploadsDir, filepath.FromSlash(rel))

	// The joined path must stay inside the uploads directory.
	if !strings.HasPrefix(filepath.Clean(local), filepath.Clean(r.opts.LocalUploadsDir)+string(filepath.Separator)) {
		slog.Warn("local media path escapes uploads directory", "url", canonical)
		return nil, "", false
	}

	data, err := os.ReadFile(local)
	if err != nil {
		slog.Warn("local media file missing", "url", canonical, "path", local, "error", err)
		return nil, "", false
	}

	r.copied.Add(1)
	return data, mime.TypeByExtension(Ext(canonical)), true
}

func (r *Resolver) fetchRemote(ctx context.Context, canonical string) ([]byte, string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, canonical, nil)
	if err != nil {
		slog.Warn("invalid media URL", "url", canonical, "error", err)
		return nil, "", false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("media fetch failed", "url", canonical, "error", err)
		return nil, "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("media fetch returned non-2xx", "url", canonical, "status", resp.StatusCode)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		slog.Warn("media read failed", "url", canonical, "error", err)
		return nil, "", false
	}

	r.fetched.Add(1)
	return data, resp.Header.Get("Content-Type"), true
}

// RewritePairs returns the mapping as substitution pairs ordered
// longest-key-first, so a URL that is a prefix of another never corrupts
// the longer occurrence during literal replacement.
func (m Mapping) RewritePairs() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Longest first; ties break lexicographically for determinism.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}

// String implements fmt.Stringer for debug logging.
func (s Stats) String() string {
	return fmt.Sprintf("fetched=%d copied=%d uploaded=%d reused=%d unresolved=%d",
		s.Fetched, s.Copied, s.Uploaded, s.ReusedHash, s.Unresolved)
}
