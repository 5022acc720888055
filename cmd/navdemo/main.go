// Command navdemo hosts a small multi-page site and drives a headless
// softnav engine across it: it follows every qualifying link in the
// content container, traverses back through native history, and prints
// the navigation log. Engine metrics are exposed on the site under
// /metrics while the demo runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/softnav/softnav"
	"github.com/softnav/softnav/internal/config"
	"github.com/softnav/softnav/internal/dom"
	"github.com/softnav/softnav/internal/logging"
)

const homePage = `<!DOCTYPE html>
<html>
<head><title>softnav demo</title></head>
<body>
<main>
	<h1>softnav</h1>
	<p>Pick a page; every link below is swapped in place.</p>
	<a href="/features">Features</a>
	<a href="/pricing">Pricing</a>
	<a href="/docs">Docs</a>
</main>
</body>
</html>`

func sitePage(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<main>
	<h1>%s</h1>
	%s
	<a href="/">Back home</a>
</main>
</body>
</html>`, title, title, body)
}

func buildSite(registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	html := func(c *gin.Context, page string) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}

	r.GET("/", func(c *gin.Context) { html(c, homePage) })
	r.GET("/features", func(c *gin.Context) {
		html(c, sitePage("Features", "<p>Fragment swaps, LRU caching, single-flight fetches.</p>"))
	})
	r.GET("/pricing", func(c *gin.Context) {
		html(c, sitePage("Pricing", "<p>Free, as in navigation.</p>"))
	})
	r.GET("/docs", func(c *gin.Context) {
		html(c, sitePage("Docs", "<p>See the package documentation.</p>"))
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func main() {
	opts := config.LoadOrDefault()

	logger, err := logging.New(logging.Config{
		Level:       opts.Logging.Level,
		Development: true,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: buildSite(registry)}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()
	defer srv.Close()

	base := fmt.Sprintf("http://%s/", listener.Addr())
	logger.Info("demo site up", zap.String("url", base), zap.String("metrics", base+"metrics"))

	doc, err := dom.NewMemDocument(homePage)
	if err != nil {
		log.Fatalf("document: %v", err)
	}
	native := dom.NewMemHistory(nil, base)

	eng, err := softnav.New(opts, softnav.Deps{
		Document: doc,
		Native:   native,
		BaseURL:  base,
		Logger:   logger,
		Registry: registry,
		Hooks: softnav.Hooks{
			LoadingChanged: func(loading bool) {
				logger.Debug("loading", zap.Bool("active", loading))
			},
			AfterRender: func() {
				logger.Info("rendered", zap.String("title", doc.Title()))
			},
			OnError: func(err error) {
				logger.Warn("navigation error", zap.Error(err))
			},
		},
	})
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Follow every link on the landing page, returning home between
	// visits the way a reader would: forward to the page, back out.
	for _, link := range eng.Links() {
		if err := eng.Navigate(ctx, link); err != nil {
			logger.Warn("skipping link", zap.String("url", link), zap.Error(err))
			continue
		}
		if slot, ok := native.Traverse(-1); ok {
			if err := eng.OnPopState(ctx, slot.URL, slot.State, -1); err != nil {
				logger.Warn("back traversal failed", zap.Error(err))
			}
		}
	}

	fmt.Println("\nnavigation log:")
	for i, entry := range eng.History() {
		fmt.Printf("  %2d  %-40s  %q\n", i, entry.URL, entry.Title)
	}
}
