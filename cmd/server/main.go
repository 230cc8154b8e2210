package main

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/Simplici0/steelcalc/internal/catalog"
	"github.com/Simplici0/steelcalc/internal/config"
	"github.com/Simplici0/steelcalc/internal/db"
	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/migrations"
	"github.com/Simplici0/steelcalc/internal/pricing"
	"github.com/Simplici0/steelcalc/internal/seed"
	"github.com/Simplici0/steelcalc/internal/session"
)

const (
	defaultTemplateDir = "web/templates"
	sweepInterval      = time.Minute
)

type server struct {
	sessions *session.Registry
	signer   *session.Signer
	grades   *catalog.Store
	format   *display.Formatter
	quiet    time.Duration

	templateDir string
	// templates is nil in dev, where pages are parsed on every request.
	templates map[string]*template.Template
}

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}
	stats, err := seed.Run(ctx, database, seed.DefaultGrades)
	if err != nil {
		log.Fatalf("failed to seed steel grades: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d steel grades", stats.Inserts)
	}

	format, err := display.NewFormatter(language.AmericanEnglish, cfg.Currency)
	if err != nil {
		log.Fatalf("invalid CURRENCY: %v", err)
	}

	sessions := session.NewRegistry(session.Options{
		IdleTimeout: cfg.SessionIdleTimeout,
		QuietPeriod: cfg.QuietPeriod,
		OnReconcile: func(id string, s pricing.State) {
			log.Printf("session %s: margin reconciled to %s", id, format.Percent(s.MarginPercent))
		},
	})
	go sessions.Run(ctx, sweepInterval)

	srv := &server{
		sessions: sessions,
		signer:   session.NewSigner(cfg.SessionSecret),
		grades:   catalog.NewStore(database),
		format:   format,
		quiet:    cfg.QuietPeriod,

		templateDir: defaultTemplateDir,
	}
	if !cfg.IsDev() {
		if srv.templates, err = parseTemplates(srv.templateDir, "calculator.html"); err != nil {
			log.Fatalf("failed to parse templates: %v", err)
		}
	}

	limiter := newIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst, limiterIdleTimeout)
	go limiter.run(ctx, sweepInterval)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func (s *server) routes(limiter *ipRateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/", s.handleHome)

		r.Route("/api", func(r chi.Router) {
			r.Use(limiter.middleware)

			r.Get("/state", s.handleState)
			r.Post("/inputs/{field}", s.handleSetInput)
			r.Post("/margin", s.handleSetMargin)
			r.Post("/prices/{kind}", s.handleSetPrice)
			r.Post("/flush", s.handleFlush)
			r.Delete("/session", s.handleEndSession)

			r.Get("/grades", s.handleGradesList)
			r.Post("/grades", s.handleGradesCreate)
			r.Post("/grades/import", s.handleGradesImport)
			r.Post("/grades/{id}", s.handleGradesUpdate)
			r.Post("/grades/{id}/apply", s.handleGradesApply)

			r.Get("/quote.pdf", s.handleQuotePDF)
			r.Get("/quote.xlsx", s.handleQuoteXLSX)
		})
	})

	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	engine := engineFrom(r)

	grades, err := s.grades.List(r.Context(), true)
	if err != nil {
		http.Error(w, "failed to load steel grades", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "calculator.html", calculatorViewData{
		State:       newStateView(engine.State(), s.format),
		Grades:      newGradeViews(grades, s.format),
		Fields:      pricing.Fields,
		PriceKinds:  pricing.PriceKinds,
		Currency:    s.format.Code(),
		QuietMillis: s.quiet.Milliseconds(),
	})
}

func parseTemplates(dir string, pages ...string) (map[string]*template.Template, error) {
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFiles(dir+"/layout.html", dir+"/"+page)
		if err != nil {
			return nil, err
		}
		parsed[page] = t
	}
	return parsed, nil
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, ok := s.templates[page]
	if !ok {
		var err error
		templates, err = template.ParseFiles(
			s.templateDir+"/layout.html",
			s.templateDir+"/"+page,
		)
		if err != nil {
			http.Error(w, "failed to parse template", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}
