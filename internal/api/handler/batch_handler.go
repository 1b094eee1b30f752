package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-sync-ingest/internal/model"
	"go-sync-ingest/internal/pipeline"
	"go-sync-ingest/internal/store"
	"go-sync-ingest/pkg/logger"
)

const batchPathPrefix = "/api/v1/batches/"

// Handler serves the batch API over one orchestrator and one store.
type Handler struct {
	Orchestrator *pipeline.Orchestrator
	Store        *store.Store
	Log          logger.Logger
}

// New builds a Handler.
func New(orc *pipeline.Orchestrator, st *store.Store, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Handler{Orchestrator: orc, Store: st, Log: log}
}

// SubmitBatch accepts a batch of raw records and runs it through the pipeline
// @Summary Submit a batch
// @Description Validate and ingest a batch of loosely-typed sync records. The batch is rejected whole if validation fails; otherwise chunks are persisted through the serialized worker and the aggregate result is recorded.
// @Tags batches
// @Accept json
// @Produce json
// @Param batch body model.BatchSubmission true "Records and sync flags"
// @Success 202 {object} map[string]interface{} "Batch accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches [post]
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var sub model.BatchSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	batchID := uuid.New().String()
	chunkSize := h.Orchestrator.ChunkSize()
	chunkCount := (len(sub.Records) + chunkSize - 1) / chunkSize

	if err := h.Store.SaveBatch(batchID, len(sub.Records), chunkCount, sub.Flags); err != nil {
		http.Error(w, "Failed to save batch", http.StatusInternalServerError)
		return
	}

	// The batch outlives this request: once accepted it runs to completion,
	// so it is not tied to the request context.
	tracker := h.Store.TrackerFor(batchID, h.Log)
	h.Orchestrator.ProcessBatch(context.Background(), sub.Records, sub.Flags, tracker, func(model.PipelineResult) {})

	resp := map[string]interface{}{
		"message":   "Batch accepted",
		"batchID":   batchID,
		"records":   len(sub.Records),
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// ListBatches lists all submitted batches
// @Summary List batches
// @Description Get every submitted batch with its status and counts
// @Tags batches
// @Produce json
// @Success 200 {array} model.BatchInfo "List of batches"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches [get]
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Store.ListBatches()
	if err != nil {
		http.Error(w, "Failed to fetch batches", http.StatusInternalServerError)
		return
	}
	writeJSON(w, batches)
}

// GetBatch fetches one batch
// @Summary Get batch
// @Description Retrieve one batch's bookkeeping row
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} model.BatchInfo "Batch details"
// @Failure 404 {object} map[string]interface{} "Batch not found"
// @Router /batches/{id} [get]
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, ok := batchIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Batch ID is required", http.StatusBadRequest)
		return
	}

	batch, err := h.Store.GetBatch(batchID)
	if err != nil {
		http.Error(w, "Batch not found", http.StatusNotFound)
		return
	}
	writeJSON(w, batch)
}

// GetBatchErrors lists a batch's recorded errors
// @Summary Get batch errors
// @Description Retrieve every validation or processing error recorded for a batch, in report order
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {array} model.BatchError "Batch errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches/{id}/errors [get]
func (h *Handler) GetBatchErrors(w http.ResponseWriter, r *http.Request) {
	batchID, ok := batchIDFromPath(r.URL.Path, "/errors")
	if !ok {
		http.Error(w, "Batch ID is required", http.StatusBadRequest)
		return
	}

	errs, err := h.Store.GetBatchErrors(batchID)
	if err != nil {
		http.Error(w, "Failed to fetch batch errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, errs)
}

// GetBatchLogs lists a batch's bookkeeping log lines
// @Summary Get batch logs
// @Description Retrieve the stage-transition log recorded for a batch
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {array} model.BatchLog "Batch logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /batches/{id}/logs [get]
func (h *Handler) GetBatchLogs(w http.ResponseWriter, r *http.Request) {
	batchID, ok := batchIDFromPath(r.URL.Path, "/logs")
	if !ok {
		http.Error(w, "Batch ID is required", http.StatusBadRequest)
		return
	}

	logs, err := h.Store.GetBatchLogs(batchID)
	if err != nil {
		http.Error(w, "Failed to fetch batch logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, logs)
}

// ListRecords lists recently persisted records
// @Summary List persisted records
// @Description Retrieve recently persisted records, most recent first
// @Tags records
// @Produce json
// @Param limit query int false "Maximum records to return (default 100)"
// @Success 200 {array} object "Persisted records"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := h.Store.ListRecords(limit)
	if err != nil {
		http.Error(w, "Failed to fetch records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// batchIDFromPath extracts the batch id between the collection prefix and an
// optional suffix like "/errors".
func batchIDFromPath(path, suffix string) (string, bool) {
	if !strings.HasPrefix(path, batchPathPrefix) {
		return "", false
	}
	id := path[len(batchPathPrefix):]
	if suffix != "" {
		if !strings.HasSuffix(id, suffix) {
			return "", false
		}
		id = id[:len(id)-len(suffix)]
	}
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
