package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/user/page-loader/internal/delivery/http/request"
	"github.com/user/page-loader/internal/delivery/http/response"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/usecase"
	"go.uber.org/zap"
)

type Handler struct {
	jobManager usecase.JobManager
	logger     *zap.Logger
}

func NewHandler(jobManager usecase.JobManager, logger *zap.Logger) *Handler {
	return &Handler{
		jobManager: jobManager,
		logger:     logger,
	}
}

func (h *Handler) HandleSubmitDownload(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !isPageURL(req.URL) {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	jobID, err := h.jobManager.Submit(r.Context(), req.URL, req.OutputDir, req.Force)
	if err != nil {
		if errors.Is(err, usecase.ErrPageRecentlyLoaded) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to submit page", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.SubmitDownloadResponse{
		Status:  "success",
		Message: "Page submitted for download",
		JobID:   jobID,
	})
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}
	if !isPageURL(rawURL) {
		h.writeJSONError(w, "Invalid URL format in query parameter", http.StatusBadRequest)
		return
	}

	status, err := h.jobManager.GetStatus(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("failed to get job status", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if status.CurrentStatus == entity.JobNotFound {
		h.writeJSONError(w, "No download found for the given URL", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, response.JobStatusResponse{
		URL:           status.URL,
		CurrentStatus: status.CurrentStatus,
		PagePath:      status.PagePath,
		AssetsTotal:   status.AssetsTotal,
		AssetsFailed:  status.AssetsFailed,
		FinishedAt:    status.FinishedAt,
		FailureReason: status.FailureReason,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func isPageURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
