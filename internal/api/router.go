package api

import (
	"net/http"
	"warehouse-coverage-service/internal/api/handlers"
	"warehouse-coverage-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.NetworkRepository) http.Handler {
	mux := http.NewServeMux()

	warehouseHandler := &handlers.WarehouseHandler{Repo: repo}
	activeHandler := &handlers.ActiveHandler{Repo: repo}
	uploadHandler := &handlers.UploadHandler{Repo: repo}
	reportHandler := &handlers.ReportHandler{Repo: repo}
	financeHandler := &handlers.FinanceHandler{}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/warehouses", warehouseHandler.List)
	mux.HandleFunc("/active", activeHandler.Handle)
	mux.HandleFunc("/uploads/speeds", uploadHandler.Speeds)
	mux.HandleFunc("/uploads/sales", uploadHandler.Sales)
	mux.HandleFunc("/report", reportHandler.Report)
	mux.HandleFunc("/recommendations", reportHandler.Recommendations)
	mux.HandleFunc("/simulate", reportHandler.Simulate)
	mux.HandleFunc("/export", reportHandler.Export)
	mux.HandleFunc("/reports/finance", financeHandler.Analyze)

	return loggingMiddleware(mux)
}
