package fetch

import (
	"context"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/softnav/softnav/internal/cache"
	"github.com/softnav/softnav/internal/dom"
	"github.com/softnav/softnav/internal/logging"
	"github.com/softnav/softnav/internal/metrics"
)

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// Selector locates the content fragment in fetched documents; the
	// whole body is used when it matches nothing.
	Selector string

	// Sanitize runs extracted fragments through a UGC sanitization
	// policy before they are cached.
	Sanitize bool

	// OnLoading, when set, is invoked with true at underlying request
	// start and false at settlement, once per network request
	// regardless of how many resolves share it.
	OnLoading func(bool)

	Logger  *logging.Logger
	Metrics *metrics.Metrics
}

// Pipeline resolves URLs to cached page entries.
type Pipeline struct {
	client    *Client
	store     *cache.Cache
	selector  string
	sanitizer *bluemonday.Policy
	onLoading func(bool)
	log       *logging.Logger
	metrics   *metrics.Metrics

	group singleflight.Group
}

// NewPipeline creates a pipeline committing results to store.
func NewPipeline(client *Client, store *cache.Cache, cfg PipelineConfig) *Pipeline {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	p := &Pipeline{
		client:    client,
		store:     store,
		selector:  cfg.Selector,
		onLoading: cfg.OnLoading,
		log:       log,
		metrics:   cfg.Metrics,
	}
	if cfg.Sanitize {
		p.sanitizer = bluemonday.UGCPolicy()
	}
	return p
}

// Resolve returns the entry for urlStr, from cache when possible. On a
// miss, concurrent resolves for the same URL join a single in-flight
// request and settle together with the identical entry.
func (p *Pipeline) Resolve(ctx context.Context, urlStr string) (*cache.Entry, error) {
	if entry, ok := p.store.Get(urlStr); ok {
		p.metrics.ObserveCacheHit()
		return entry, nil
	}
	p.metrics.ObserveCacheMiss()

	v, err, shared := p.group.Do(urlStr, func() (any, error) {
		return p.fetch(ctx, urlStr)
	})
	if shared {
		p.metrics.ObserveSharedFetch()
	}
	if err != nil {
		return nil, err
	}
	return v.(*cache.Entry), nil
}

// fetch performs one underlying request and commits the parsed entry.
func (p *Pipeline) fetch(ctx context.Context, urlStr string) (*cache.Entry, error) {
	start := time.Now()
	p.setLoading(true)
	defer p.setLoading(false)

	resp, err := p.client.Get(ctx, urlStr)
	if err != nil {
		p.metrics.ObserveFetch("transport_error", time.Since(start))
		p.log.Warn("request failed", zap.String("url", urlStr), zap.Error(err))
		return nil, &TransportError{URL: urlStr, Err: err}
	}

	if !Acceptable(resp.StatusCode()) {
		p.metrics.ObserveFetch("status_error", time.Since(start))
		p.log.Warn("unexpected status",
			zap.String("url", urlStr),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, &StatusError{URL: urlStr, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	entry, err := p.parse(urlStr, resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		p.metrics.ObserveFetch("parse_error", time.Since(start))
		p.log.Warn("unparseable response", zap.String("url", urlStr), zap.Error(err))
		return nil, err
	}

	p.metrics.ObserveFetch("ok", time.Since(start))
	p.log.Debug("page fetched",
		zap.String("url", urlStr),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p.store.Put(urlStr, entry), nil
}

// parse decodes and parses body, extracts the container fragment and
// title, and builds the cache entry.
func (p *Pipeline) parse(urlStr string, body []byte, contentType string) (*cache.Entry, error) {
	// An empty body (204 and friends) parses to an empty document and
	// falls through to the body fallback below.
	if len(body) > 0 {
		if contentType == "" {
			contentType = mimetype.Detect(body).String()
		}
		if !strings.Contains(contentType, "html") {
			return nil, &ParseError{URL: urlStr, Err: errUnsupportedType(contentType)}
		}
	}

	markup, err := decode(body, contentType)
	if err != nil {
		return nil, &ParseError{URL: urlStr, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ParseError{URL: urlStr, Err: err}
	}

	sel, ok := dom.Select(doc, p.selector)
	if !ok {
		sel = doc.Find("body").First()
	}
	frag := dom.NewFragment(sel)

	if p.sanitizer != nil {
		raw, err := frag.HTML()
		if err != nil {
			return nil, &ParseError{URL: urlStr, Err: err}
		}
		frag, err = dom.ParseFragment(p.sanitizer.Sanitize(raw))
		if err != nil {
			return nil, &ParseError{URL: urlStr, Err: err}
		}
	}

	title := doc.Find("title").First().Text()
	if title == "" {
		if parsed, err := url.Parse(urlStr); err == nil {
			title = parsed.Host
		}
	}

	return &cache.Entry{URL: urlStr, Title: title, Content: frag}, nil
}

func (p *Pipeline) setLoading(loading bool) {
	if p.onLoading != nil {
		p.onLoading(loading)
	}
}

// decode converts body to UTF-8, reading the charset from the
// Content-Type when declared and sniffing it otherwise. Undecodable
// charsets fall back to the raw bytes.
func decode(body []byte, contentType string) (string, error) {
	var charset string
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = params["charset"]
	}
	if charset == "" {
		if best, err := chardet.NewHtmlDetector().DetectBest(body); err == nil {
			charset = best.Charset
		}
	}
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return string(body), nil
	}

	enc, err := htmlindex.Get(strings.ToLower(charset))
	if err != nil || enc == nil {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

type errUnsupportedType string

func (e errUnsupportedType) Error() string {
	return "unsupported content type " + string(e)
}
