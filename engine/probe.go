package engine

import (
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"github.com/vidstack/elements/constant"
	"github.com/vidstack/elements/filesystem"
	"github.com/vidstack/elements/key"
	"github.com/vidstack/elements/media"
	"github.com/vidstack/elements/network"
	"github.com/vidstack/elements/where"
)

// ProbeCache stores previously detected media types keyed by source URL.
type ProbeCache interface {
	Get(rawURL string) (media.Type, bool)
	Set(rawURL string, t media.Type)
}

// MemoryProbeCache is a volatile in-process ProbeCache, mainly useful for tests.
type MemoryProbeCache struct {
	mu    sync.Mutex
	types map[string]media.Type
}

func NewMemoryProbeCache() *MemoryProbeCache {
	return &MemoryProbeCache{types: make(map[string]media.Type)}
}

func (c *MemoryProbeCache) Get(rawURL string) (media.Type, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[rawURL]
	return t, ok
}

func (c *MemoryProbeCache) Set(rawURL string, t media.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[rawURL] = t
}

// DiskProbeCache persists probe results across runs so repeated playback of the
// same source never pays the network round-trip twice.
type DiskProbeCache struct {
	internal *gache.Cache[map[string]media.Type]
}

func NewDiskProbeCache() *DiskProbeCache {
	return &DiskProbeCache{
		internal: gache.New[map[string]media.Type](&gache.Options{
			Path:       where.Probes(),
			Lifetime:   time.Hour * time.Duration(viper.GetInt(key.ProbeCacheTTL)),
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (c *DiskProbeCache) Get(rawURL string) (media.Type, bool) {
	cached, expired, err := c.internal.Get()
	if err != nil || expired || cached == nil {
		return media.TypeUnknown, false
	}
	t, ok := cached[rawURL]
	return t, ok
}

func (c *DiskProbeCache) Set(rawURL string, t media.Type) {
	cached, expired, err := c.internal.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string]media.Type)
	}
	cached[rawURL] = t
	_ = c.internal.Set(cached)
}

// Prober classifies playback sources by media type. Detection is extension
// based first, then falls back to a network HEAD request when enabled.
type Prober struct {
	Cache  ProbeCache
	Client *http.Client
}

func NewProber() *Prober {
	return &Prober{
		Cache:  NewDiskProbeCache(),
		Client: network.Client,
	}
}

// Detect resolves the media type of the given source.
// Results are cached by URL; local files never hit the network.
func (p *Prober) Detect(src Source) media.Type {
	if t, ok := p.Cache.Get(src.URL); ok && t != media.TypeUnknown {
		return t
	}

	t := typeFromExtension(src.URL)
	if t == media.TypeUnknown && viper.GetBool(key.ProbeNetwork) && isRemote(src.URL) {
		t = p.probeRemote(src)
	}

	if t != media.TypeUnknown {
		p.Cache.Set(src.URL, t)
	}
	return t
}

func (p *Prober) probeRemote(src Source) media.Type {
	req, err := http.NewRequest(http.MethodHead, src.URL, nil)
	if err != nil {
		return media.TypeUnknown
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return media.TypeUnknown
	}
	defer resp.Body.Close()

	return typeFromContentType(resp.Header.Get("Content-Type"))
}

func isRemote(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func typeFromExtension(rawURL string) media.Type {
	ext := strings.ToLower(path.Ext(strippedPath(rawURL)))

	switch ext {
	case ".m3u8", ".m3u":
		return media.TypeHLS
	case ".mp3", ".m4a", ".aac", ".flac", ".ogg", ".oga", ".opus", ".wav":
		return media.TypeAudio
	case ".mp4", ".m4v", ".mkv", ".webm", ".mov", ".avi", ".ts", ".ogv":
		return media.TypeVideo
	}

	return media.TypeUnknown
}

// strippedPath drops the query and fragment so extension matching works on
// signed CDN URLs.
func strippedPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Path != "" {
		return u.Path
	}
	return rawURL
}

func typeFromContentType(contentType string) media.Type {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	switch contentType {
	case "application/vnd.apple.mpegurl", "application/x-mpegurl", "audio/mpegurl", "audio/x-mpegurl":
		return media.TypeHLS
	}

	switch {
	case strings.HasPrefix(contentType, "audio/"):
		return media.TypeAudio
	case strings.HasPrefix(contentType, "video/"):
		return media.TypeVideo
	}

	return media.TypeUnknown
}
