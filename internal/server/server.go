package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/careerpilot/careerpilot/internal/chat"
	"github.com/careerpilot/careerpilot/internal/config"
	"github.com/careerpilot/careerpilot/internal/embedding"
	"github.com/careerpilot/careerpilot/internal/ingest"
	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/scrape"
	"github.com/careerpilot/careerpilot/internal/search"
	"github.com/careerpilot/careerpilot/internal/server/ratelimit"
)

// Server represents the HTTP server and its wired collaborators.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	rateLimiter *ratelimit.Limiter

	llmClient llm.Client
	scraper   *scrape.Client
	searcher  *search.Client
	pipeline  *chat.Pipeline
	ingestion *ingest.Pipeline
}

// New creates a server instance. Missing LLM credentials leave the chat
// pipeline unavailable but do not prevent startup; the affected endpoints
// return configuration errors instead.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:         cfg,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		scraper:     scrape.New(cfg),
		searcher:    search.New(cfg),
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client

		var classifier llm.IntentClassifier = &llm.ModelClassifier{Client: client}
		if cfg.ClassifierMode == "keyword" {
			classifier = llm.KeywordClassifier{}
		}
		s.pipeline = chat.NewPipeline(client, classifier, s.searcher)

		embedder, err := embedding.NewGeminiEmbedder(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		s.ingestion = ingest.NewPipeline(s.scraper, s.searcher, embedder)
	} else {
		log.Printf("[server] GEMINI_API_KEY not set; chat disabled, ingestion runs without embeddings")
		s.ingestion = ingest.NewPipeline(s.scraper, s.searcher, nil)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/scrape/profile", s.handleScrapeProfile)
	mux.HandleFunc("POST /api/jobs/collect", s.handleCollectJobs)
	mux.HandleFunc("GET /api/jobs/search", s.handleSearchJobs)
	mux.HandleFunc("GET /api/jobs/stats", s.handleJobStats)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // scrape-and-ingest requests poll for minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request correlation ID.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()[:8]
		start := time.Now()
		log.Printf("[%s] %s %s %s", requestID, r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s completed in %v", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit enforces per-endpoint request ceilings.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// envelope is the uniform response shape: {success, data|error}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// successResponse writes a success envelope.
func (s *Server) successResponse(w http.ResponseWriter, data any) {
	s.jsonResponse(w, http.StatusOK, envelope{Success: true, Data: data})
}

// errorResponse writes an error envelope with the status mapped from err.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), envelope{Success: false, Error: err.Error()})
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}
	log.Printf("[rate-limit] ceiling hit: limit=%d reset=%s", info.Limit, info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, envelope{Success: false, Error: "rate limit exceeded, please try again later"})
}
