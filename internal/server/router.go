package server

import (
	"context"
	"net/http"

	"coopledger/internal/handlers"
	applog "coopledger/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)

	resources := map[string]http.HandlerFunc{
		"/api/raw-materials":     handlers.RawMaterialResource,
		"/api/finished-feeds":    handlers.FinishedFeedResource,
		"/api/feed-compositions": handlers.FeedCompositionResource,
		"/api/flocks":            handlers.FlockResource,
		"/api/feed-consumption":  handlers.FeedConsumptionResource,
		"/api/egg-production":    handlers.EggProductionResource,
		"/api/egg-sales":         handlers.EggSaleResource,
		"/api/expenses":          handlers.ExpenseResource,
	}
	for path, handler := range resources {
		mux.HandleFunc(path, handler)
		mux.HandleFunc(path+"/", handler)
		applog.Debug(context.Background(), "route registered", "path", path)
	}

	mux.HandleFunc("/api/reports/profit", handlers.ProfitReport)
	mux.HandleFunc("/api/export", handlers.Export)
	applog.Debug(context.Background(), "route registered", "path", "/api/reports/profit")
	applog.Debug(context.Background(), "route registered", "path", "/api/export")

	return mux
}
