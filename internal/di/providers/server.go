package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/api"
	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/logger"
	"github.com/notesapp/notes-server/internal/ratelimit"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/validation"
)

// SyncLimiterHandle wraps the per-client sync limiter. Limiter is nil when
// limiting is disabled.
type SyncLimiterHandle struct {
	*ratelimit.Limiter
}

// Shutdown implements do.Shutdownable.
func (h *SyncLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideSyncLimiter provides the sync endpoint rate limiter.
func ProvideSyncLimiter(i do.Injector) (*SyncLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Sync.RatePerMinute == 0 {
		log.Info("sync rate limiting disabled")
		return &SyncLimiterHandle{}, nil
	}
	return &SyncLimiterHandle{Limiter: ratelimit.PerMinute(cfg.Sync.RatePerMinute)}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*SyncLimiterHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Sync:    do.MustInvoke[*service.SyncService](i),
		Stats:   do.MustInvoke[*service.StatsService](i),
		Project: do.MustInvoke[*service.ProjectService](i),
		Note:    do.MustInvoke[*service.NoteService](i),
		Tag:     do.MustInvoke[*service.TagService](i),
		Page:    do.MustInvoke[*service.PageService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, validator, api.Options{
		CORSOrigins:   cfg.Server.CORSOrigins,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		SyncLimiter:   limiter.Limiter,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
