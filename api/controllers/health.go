package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/VamsiDavuluri/vendor-inventory/api/responses"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/config"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db"
	pkgerrors "github.com/VamsiDavuluri/vendor-inventory/pkg/errors"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/redis"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/storage/gcs"
)

const readyTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendorInventory-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the wired dependencies. Nil pingers are skipped so the
// service can run without the optional cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP redis.Pinger, storeP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VendorInventory-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := []struct {
			name string
			ping func(context.Context) error
		}{
			{"database", pingFunc(dbP)},
			{"cache", pingFunc(cacheP)},
			{"object store", pingFunc(storeP)},
		}

		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

func pingFunc(p interface{ Ping(context.Context) error }) func(context.Context) error {
	if p == nil {
		return nil
	}
	return p.Ping
}
