package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Saymandev/samucha-storefront/api/responses"
	"github.com/Saymandev/samucha-storefront/pkg/config"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
)

const (
	envHeader        = "X-Samucha-Env"
	readinessTimeout = 2 * time.Second
)

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the catalog database and the session
// store both answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		deps := []struct {
			name string
			p    Pinger
		}{
			{"database", dbP},
			{"redis", redisP},
		}

		checks := map[string]string{}
		var failed *pkgerrors.Error
		for _, dep := range deps {
			if dep.p == nil {
				checks[dep.name] = "skipped"
				continue
			}
			if err := dep.p.Ping(ctx); err != nil {
				checks[dep.name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, dep.name+" unavailable")
				}
				continue
			}
			checks[dep.name] = "ok"
		}

		if failed != nil {
			responses.WriteError(ctx, logg, w, failed.WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
