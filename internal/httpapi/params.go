package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
)

// selectorOf reads range, from and to. A missing range selects the default window.
func selectorOf(r *http.Request) period.Selector {
	q := r.URL.Query()
	return period.ParseSelector(q.Get("range"), q.Get("from"), q.Get("to"))
}

// windowOf resolves the request selector to a window ending today.
func (s *Server) windowOf(r *http.Request) (period.Window, error) {
	return period.ResolveWindow(selectorOf(r), s.today())
}

// metricsOf reads a comma-separated metrics list, falling back to the configured defaults.
func (s *Server) metricsOf(r *http.Request) ([]string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("metrics"))
	if raw == "" {
		return append([]string(nil), s.d.DefaultMetrics...), nil
	}

	var out []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if !domain.IsKnownMetric(m) {
			return nil, fmt.Errorf("unknown metric %q: %w", m, storage.ErrInvalidInput)
		}
		out = append(out, m)
	}
	return out, nil
}

// metricOf reads a single metric, defaulting to bio clicks.
func metricOf(r *http.Request) (string, error) {
	m := strings.TrimSpace(r.URL.Query().Get("metric"))
	if m == "" {
		return domain.MetricBioClicks, nil
	}
	if !domain.IsKnownMetric(m) {
		return "", fmt.Errorf("unknown metric %q: %w", m, storage.ErrInvalidInput)
	}
	return m, nil
}

// intOf reads a positive integer query parameter, returning def when it is absent.
func intOf(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, storage.ErrInvalidInput)
	}
	return n, nil
}
