package httpserver

import (
	"net/http"

	"evcharge/services/dashboard/internal/http/handlers"
)

// Routes defines HTTP endpoints.
type Routes struct {
	Stats  *handlers.StatsHandlers
	Recent http.Handler
	Health http.Handler
}

// NewRouter sets up HTTP routing.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Stats != nil {
		mux.Handle("/api/stats/overview", method(http.MethodGet, routes.Stats.Overview))
		mux.Handle("/api/stats/time-of-day", method(http.MethodGet, routes.Stats.ByTimeOfDay))
		mux.Handle("/api/stats/day-of-week", method(http.MethodGet, routes.Stats.ByDayOfWeek))
		mux.Handle("/api/stats/vehicle-models", method(http.MethodGet, routes.Stats.ByVehicleModel))
		mux.Handle("/api/stats/stations/top", method(http.MethodGet, routes.Stats.TopStations))
		mux.Handle("/api/stats/daily", method(http.MethodGet, routes.Stats.DailyTrends))
	}
	if routes.Recent != nil {
		mux.Handle("/api/sessions/recent", method(http.MethodGet, routes.Recent.ServeHTTP))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
