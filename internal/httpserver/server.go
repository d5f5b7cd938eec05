package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tinytelemetry/abacus/internal/calc"
	"github.com/tinytelemetry/abacus/internal/model"
)

// Config holds the HTTP API settings.
type Config struct {
	Addr          string
	MaxReplayKeys int
}

// Server provides an HTTP API over the calculator engine.
type Server struct {
	addr          string
	maxReplayKeys int
	eval          calc.Evaluator
	acc           *calc.Accumulator
	logger        zerolog.Logger
	server        *http.Server
	ctx           context.Context
	cancel        context.CancelFunc
	startTime     time.Time
	evaluations   atomic.Int64
}

// NewServer creates a new HTTP API server.
func NewServer(cfg Config, eval calc.Evaluator, logger zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = fmt.Sprintf("127.0.0.1:%d", model.DefaultAPIPort)
	}
	if cfg.MaxReplayKeys <= 0 {
		cfg.MaxReplayKeys = model.DefaultMaxReplayKeys
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:          cfg.Addr,
		maxReplayKeys: cfg.MaxReplayKeys,
		eval:          eval,
		acc:           calc.NewAccumulator(eval),
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/api/health", s.handleHealth)
	r.POST("/api/evaluate", s.handleEvaluate)
	r.POST("/api/replay", s.handleReplay)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("api listening")

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("api serve failed")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"evaluations": s.evaluations.Load(),
	})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req struct {
		Expression string `json:"expression" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing expression field"})
		return
	}

	s.evaluations.Add(1)
	value, err := s.eval.Evaluate(req.Expression)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"kind":  calc.ErrorKindOf(err).String(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expression": req.Expression,
		"result":     calc.FormatResult(value),
	})
}

type stateJSON struct {
	History string `json:"history"`
	Current string `json:"current"`
	Error   string `json:"error"`
	Display string `json:"display"`
}

type stepJSON struct {
	Key string `json:"key"`
	stateJSON
}

func toStateJSON(st calc.State) stateJSON {
	return stateJSON{
		History: st.History,
		Current: st.Current,
		Error:   st.Err.String(),
		Display: st.Display(),
	}
}

func (s *Server) handleReplay(c *gin.Context) {
	var req struct {
		Keys []string `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing keys field"})
		return
	}
	if len(req.Keys) > s.maxReplayKeys {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many keys", "max": s.maxReplayKeys})
		return
	}

	s.evaluations.Add(1)
	res := s.acc.Replay(req.Keys)

	steps := make([]stepJSON, 0, len(res.Steps))
	for _, st := range res.Steps {
		steps = append(steps, stepJSON{Key: st.Key, stateJSON: toStateJSON(st.State)})
	}

	c.JSON(http.StatusOK, gin.H{
		"state":   toStateJSON(res.Final),
		"steps":   steps,
		"ignored": res.Ignored,
	})
}
