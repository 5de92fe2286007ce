// Package server exposes the live telemetry of a session over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var srvLog = log.With().Str("module", "server").Logger()

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Store is the read side of an analyzer session.
type Store interface {
	Heroes() []tracker.HeroEntity
	Latest() (status.FrameStatus, bool)
	Since(from int64, limit int) []status.FrameStatus
	AxisStats() (mean, stddev float64, n int)
}

type heroView struct {
	ID          int   `json:"id"`
	Level       int   `json:"level"`
	X           int   `json:"x"`
	Y           int   `json:"y"`
	LastUpdated int64 `json:"last_updated"`
	Appearances int   `json:"appearances"`
}

// NewRouter builds the API routes over store.
func NewRouter(store Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		srvLog.Debug().Str("method", c.Request.Method).Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).Dur("took", time.Since(start)).Msg("request")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/heroes", func(c *gin.Context) {
		entities := store.Heroes()
		heroes := make([]heroView, 0, len(entities))
		for _, e := range entities {
			heroes = append(heroes, heroView{
				ID: e.ID, Level: e.Level, X: e.Position.X, Y: e.Position.Y,
				LastUpdated: e.LastUpdated, Appearances: e.Appearances,
			})
		}
		c.JSON(http.StatusOK, gin.H{"heroes": heroes, "count": len(heroes)})
	})

	api.GET("/status/latest", func(c *gin.Context) {
		fs, ok := store.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no frame processed yet"})
			return
		}
		c.JSON(http.StatusOK, fs)
	})

	api.GET("/timeline", func(c *gin.Context) {
		from, err := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an integer timestamp in ms"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(limit, maxLimit)
		frames := store.Since(from, limit)
		c.JSON(http.StatusOK, gin.H{"frames": frames, "count": len(frames)})
	})

	api.GET("/joystick/stats", func(c *gin.Context) {
		mean, stddev, n := store.AxisStats()
		c.JSON(http.StatusOK, gin.H{"mean": mean, "stddev": stddev, "samples": n})
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, store Store) error {
	srv := &http.Server{Addr: addr, Handler: NewRouter(store)}
	errCh := make(chan error, 1)
	go func() {
		srvLog.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
