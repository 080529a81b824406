package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// TaskResponse is returned when a background task has been queued
// @Description Queued background task reference
type TaskResponse struct {
	TaskID string `json:"task_id" example:"0c7e9a44-0a3e-4f5b-9a3e-1d2b3c4d5e6f"`
	Status string `json:"status" example:"queued"`
}

// GroundRequest is the payload for grounding a batch of AI answers
// @Description Batch of AI answer strings to ground against a document
type GroundRequest struct {
	MessageID string   `json:"message_id,omitempty"`
	Answers   []string `json:"answers"`
}

// LinkMessageRequest associates an annotation with a chat message
// @Description Message link payload
type LinkMessageRequest struct {
	MessageID string `json:"message_id"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database, queue and cache connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend dependency is unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if err := s.taskQueue.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "task queue unavailable")
		return
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleRegister godoc
// @Summary      Register account
// @Description  Create a new account and receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RegisterRequest  true  "Account details"
// @Success      201      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      409      {object}  ErrorResponse  "Email already registered"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "valid email and a password of at least 8 characters are required")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials or account disabled"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "account disabled")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// User endpoints

// handleGetMe godoc
// @Summary      Get current user
// @Description  Get the currently authenticated user's profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AuthContext
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, authCtx)
}

// Annotation endpoints

// handleSaveAnnotation godoc
// @Summary      Save annotation
// @Description  Persist a highlight annotation. Near-duplicate saves return the existing record.
// @Tags         Annotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.AnnotationInput  true  "Annotation payload"
// @Success      201      {object}  driving.SaveResult
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /annotations [post]
func (s *Server) handleSaveAnnotation(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in domain.AnnotationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.annotationService.Save(r.Context(), authCtx.UserID, &in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "document_id, type, highlight_text and a positive page_number are required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to save annotation")
		}
		return
	}

	status := http.StatusCreated
	if result.Deduped {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// handleListAnnotations godoc
// @Summary      List annotations
// @Description  List the user's annotations for a document, ordered by creation time
// @Tags         Annotations
// @Produce      json
// @Security     BearerAuth
// @Param        document_id  query     string  true  "Document ID"
// @Success      200  {array}   domain.AnnotationRecord
// @Failure      400  {object}  ErrorResponse  "Missing document_id"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /annotations [get]
func (s *Server) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID := r.URL.Query().Get("document_id")
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	records, err := s.annotationService.List(r.Context(), authCtx.UserID, documentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list annotations")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleDeleteAnnotation godoc
// @Summary      Delete annotation
// @Description  Delete one annotation owned by the user
// @Tags         Annotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Annotation ID"
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Annotation owned by another user"
// @Failure      404  {object}  ErrorResponse  "Annotation not found"
// @Router       /annotations/{id} [delete]
func (s *Server) handleDeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := s.annotationService.Delete(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "annotation not found")
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "annotation owned by another user")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete annotation")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLinkMessage godoc
// @Summary      Link annotation to message
// @Description  Associate an annotation with the chat message that produced it
// @Tags         Annotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Annotation ID"
// @Param        request  body      LinkMessageRequest  true  "Message link"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Missing message_id"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Annotation owned by another user"
// @Failure      404      {object}  ErrorResponse  "Annotation not found"
// @Router       /annotations/{id}/link [post]
func (s *Server) handleLinkMessage(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req LinkMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageID == "" {
		writeError(w, http.StatusBadRequest, "message_id is required")
		return
	}

	err := s.annotationService.LinkMessage(r.Context(), authCtx.UserID, req.MessageID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "annotation not found")
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "annotation owned by another user")
		default:
			writeError(w, http.StatusInternalServerError, "failed to link message")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUnlinkMessage godoc
// @Summary      Unlink message highlights
// @Description  Remove a message's annotation links and delete AI annotations left orphaned
// @Tags         Annotations
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "Document ID"
// @Param        messageID  path      string  true  "Message ID"
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/messages/{messageID} [delete]
func (s *Server) handleUnlinkMessage(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := s.annotationService.UnlinkMessage(r.Context(), authCtx.UserID, r.PathValue("id"), r.PathValue("messageID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to unlink message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Grounding endpoints

// handleGroundBatch godoc
// @Summary      Ground AI answers
// @Description  Queue a batch of AI answer strings for grounding against the document's pages
// @Tags         Grounding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Document ID"
// @Param        request  body      GroundRequest  true  "Answer batch"
// @Success      202      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Failed to queue"
// @Router       /documents/{id}/ground [post]
func (s *Server) handleGroundBatch(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers must not be empty")
		return
	}

	task, err := domain.NewGroundBatchTask(authCtx.UserID, r.PathValue("id"), req.MessageID, req.Answers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid answer batch")
		return
	}

	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue grounding task")
		return
	}

	writeJSON(w, http.StatusAccepted, TaskResponse{TaskID: task.ID, Status: "queued"})
}

// handleGetHighlights godoc
// @Summary      Get page highlights
// @Description  Return the session's current highlights for one page, in render order
// @Tags         Grounding
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Document ID"
// @Param        page  query     int     true  "1-based page number"
// @Success      200   {array}   domain.Highlight
// @Failure      400   {object}  ErrorResponse  "Invalid page"
// @Failure      401   {object}  ErrorResponse  "Unauthorized"
// @Failure      404   {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/highlights [get]
func (s *Server) handleGetHighlights(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}

	highlights, err := s.groundingService.Highlights(r.Context(), authCtx.UserID, r.PathValue("id"), page)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load highlights")
		}
		return
	}

	writeJSON(w, http.StatusOK, highlights)
}

// handleRestoreHighlights godoc
// @Summary      Restore highlights
// @Description  Queue rebuilding of the session's highlights from persisted annotations
// @Tags         Grounding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  TaskResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Failed to queue"
// @Router       /documents/{id}/highlights/restore [post]
func (s *Server) handleRestoreHighlights(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task := domain.NewRestoreHighlightsTask(authCtx.UserID, r.PathValue("id"))
	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue restore task")
		return
	}

	writeJSON(w, http.StatusAccepted, TaskResponse{TaskID: task.ID, Status: "queued"})
}

// handleCloseSession godoc
// @Summary      Close document session
// @Description  Discard session state for a document when the user navigates away
// @Tags         Grounding
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /documents/{id}/session [delete]
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.groundingService.CloseSession(authCtx.UserID, r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Task endpoints

// handleGetTask godoc
// @Summary      Get task status
// @Description  Return the status of a queued background task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Router       /tasks/{id} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task, err := s.taskQueue.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if task.UserID != authCtx.UserID {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
