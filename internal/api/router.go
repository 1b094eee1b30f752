package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"go-sync-ingest/internal/api/handler"
	"go-sync-ingest/pkg/router"
)

// RegisterRoutes wires the batch API onto the router.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/batches", h.SubmitBatch)
	r.GET("/api/v1/batches", h.ListBatches)
	// More specific routes first
	r.GET("/api/v1/batches/*/errors", h.GetBatchErrors)
	r.GET("/api/v1/batches/*/logs", h.GetBatchLogs)
	r.GET("/api/v1/batches/*", h.GetBatch)
	r.GET("/api/v1/records", h.ListRecords)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
