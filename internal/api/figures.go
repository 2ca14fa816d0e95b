package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/observability"
	"github.com/neuroimg/fmriplot/pkg/pipeline"
)

// Response headers set on composed figures.
const (
	headerFigureID   = "X-Figure-Id"
	headerFigureRows = "X-Figure-Rows"
	headerCache      = "X-Cache"
)

// handleCompose composes a figure from a JSON request body and responds
// with the PNG artifact. Identical requests hit the artifact cache.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	opts.Logger = s.logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	key := opts.CacheKey()
	if png, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		s.logger.Debug("cache hit", "key", key)
		observability.Cache().OnCacheHit("figure")
		writePNG(w, png, "HIT")
		return
	}
	observability.Cache().OnCacheMiss("figure")

	result, err := pipeline.Execute(opts)
	if err != nil {
		s.logger.Error("compose failed", "error", err)
		s.writeError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), key, result.PNG, artifactTTL); err != nil {
		s.logger.Warn("cache store failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet("figure", len(result.PNG))
	}

	w.Header().Set(headerFigureRows, strconv.Itoa(result.Rows))
	writePNG(w, result.PNG, "MISS")
}

// writePNG emits the artifact with a fresh figure identifier.
func writePNG(w http.ResponseWriter, png []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set(headerFigureID, uuid.NewString())
	w.Header().Set(headerCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
