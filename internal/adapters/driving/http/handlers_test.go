package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	registerFn      func(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error)
	authenticateFn  func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
}

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

type mockAnnotationService struct {
	saveFn          func(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error)
	listFn          func(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error)
	restoreFn       func(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error)
	linkMessageFn   func(ctx context.Context, userID, messageID, annotationID string) error
	unlinkMessageFn func(ctx context.Context, userID, documentID, messageID string) error
	deleteFn        func(ctx context.Context, userID, annotationID string) error
}

func (m *mockAnnotationService) Save(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAnnotationService) List(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, documentID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAnnotationService) Restore(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	if m.restoreFn != nil {
		return m.restoreFn(ctx, userID, documentID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAnnotationService) LinkMessage(ctx context.Context, userID, messageID, annotationID string) error {
	if m.linkMessageFn != nil {
		return m.linkMessageFn(ctx, userID, messageID, annotationID)
	}
	return errors.New("not implemented")
}

func (m *mockAnnotationService) UnlinkMessage(ctx context.Context, userID, documentID, messageID string) error {
	if m.unlinkMessageFn != nil {
		return m.unlinkMessageFn(ctx, userID, documentID, messageID)
	}
	return errors.New("not implemented")
}

func (m *mockAnnotationService) Delete(ctx context.Context, userID, annotationID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, annotationID)
	}
	return errors.New("not implemented")
}

type mockGroundingService struct {
	groundBatchFn  func(ctx context.Context, userID, documentID, messageID string, answers []string) error
	highlightsFn   func(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error)
	restoreFn      func(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error)
	closedSessions []string
}

func (m *mockGroundingService) GroundBatch(ctx context.Context, userID, documentID, messageID string, answers []string) error {
	if m.groundBatchFn != nil {
		return m.groundBatchFn(ctx, userID, documentID, messageID, answers)
	}
	return errors.New("not implemented")
}

func (m *mockGroundingService) Highlights(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error) {
	if m.highlightsFn != nil {
		return m.highlightsFn(ctx, userID, documentID, page)
	}
	return nil, errors.New("not implemented")
}

func (m *mockGroundingService) RestoreHighlights(ctx context.Context, userID, documentID string) ([]*domain.Highlight, error) {
	if m.restoreFn != nil {
		return m.restoreFn(ctx, userID, documentID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockGroundingService) CloseSession(userID, documentID string) {
	m.closedSessions = append(m.closedSessions, userID+"/"+documentID)
}

type mockTaskQueue struct {
	enqueued  []*domain.Task
	enqueueFn func(ctx context.Context, task *domain.Task) error
	getTaskFn func(ctx context.Context, taskID string) (*domain.Task, error)
	pingFn    func(ctx context.Context) error
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, task *domain.Task) error {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, task)
	}
	m.enqueued = append(m.enqueued, task)
	return nil
}

func (m *mockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	return nil, nil
}

func (m *mockTaskQueue) Ack(ctx context.Context, taskID string) error { return nil }

func (m *mockTaskQueue) Nack(ctx context.Context, taskID string, reason string) error { return nil }

func (m *mockTaskQueue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, taskID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskQueue) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockTaskQueue) Close() error { return nil }

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// Test harness

type testServer struct {
	server      *Server
	auth        *mockAuthService
	annotations *mockAnnotationService
	grounding   *mockGroundingService
	queue       *mockTaskQueue
	db          *mockPinger
}

func newTestServer() *testServer {
	auth := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			if token == "good-token" {
				return &domain.AuthContext{UserID: "user-1", Email: "dev@example.com", Name: "Dev"}, nil
			}
			return nil, domain.ErrTokenInvalid
		},
	}
	annotations := &mockAnnotationService{}
	grounding := &mockGroundingService{}
	queue := &mockTaskQueue{}
	db := &mockPinger{}

	cfg := DefaultConfig()
	cfg.Version = "test"
	return &testServer{
		server:      NewServer(cfg, auth, annotations, grounding, queue, db, nil),
		auth:        auth,
		annotations: annotations,
		grounding:   grounding,
		queue:       queue,
		db:          db,
	}
}

func (ts *testServer) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/version", nil, "")
	body := decodeBody[map[string]string](t, rec)
	if body["version"] != "test" {
		t.Errorf("version = %q, want test", body["version"])
	}
}

func TestHandleReady(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/ready", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleReadyDatabaseDown(t *testing.T) {
	ts := newTestServer()
	ts.db.pingFn = func(ctx context.Context) error { return errors.New("connection refused") }

	rec := ts.request(t, http.MethodGet, "/ready", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// Auth endpoints

func TestHandleRegister(t *testing.T) {
	ts := newTestServer()
	ts.auth.registerFn = func(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error) {
		return &domain.LoginResponse{Token: "jwt", User: &domain.UserSummary{Email: req.Email}}, nil
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/register",
		domain.RegisterRequest{Email: "dev@example.com", Password: "secret-pass", Name: "Dev"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[domain.LoginResponse](t, rec)
	if body.Token != "jwt" {
		t.Errorf("token = %q", body.Token)
	}
}

func TestHandleRegisterInvalidInput(t *testing.T) {
	ts := newTestServer()
	ts.auth.registerFn = func(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error) {
		return nil, domain.ErrInvalidInput
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/register", domain.RegisterRequest{}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRegisterDuplicate(t *testing.T) {
	ts := newTestServer()
	ts.auth.registerFn = func(ctx context.Context, req domain.RegisterRequest) (*domain.LoginResponse, error) {
		return nil, domain.ErrAlreadyExists
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/register",
		domain.RegisterRequest{Email: "dev@example.com", Password: "secret-pass"}, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleLogin(t *testing.T) {
	ts := newTestServer()
	ts.auth.authenticateFn = func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
		return &domain.LoginResponse{Token: "jwt"}, nil
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/login",
		domain.LoginRequest{Email: "dev@example.com", Password: "secret-pass"}, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer()
	ts.auth.authenticateFn = func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
		return nil, domain.ErrInvalidCredentials
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/login",
		domain.LoginRequest{Email: "dev@example.com", Password: "wrong"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleGetMe(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/v1/me", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[domain.AuthContext](t, rec)
	if body.UserID != "user-1" {
		t.Errorf("user_id = %q", body.UserID)
	}
}

func TestHandleGetMeUnauthorized(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/v1/me", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// Annotation endpoints

func TestHandleSaveAnnotation(t *testing.T) {
	ts := newTestServer()
	ts.annotations.saveFn = func(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error) {
		if userID != "user-1" {
			t.Errorf("userID = %q", userID)
		}
		return &driving.SaveResult{Annotation: in.Record(userID)}, nil
	}

	in := domain.AnnotationInput{
		DocumentID:    "doc-1",
		Type:          domain.AnnotationHighlight,
		HighlightText: "selected text",
		PageNumber:    3,
		X:             10, Y: 20, Width: 100, Height: 18,
	}
	rec := ts.request(t, http.MethodPost, "/api/v1/annotations", in, "good-token")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSaveAnnotationDeduped(t *testing.T) {
	ts := newTestServer()
	ts.annotations.saveFn = func(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error) {
		return &driving.SaveResult{Annotation: in.Record(userID), Deduped: true}, nil
	}

	in := domain.AnnotationInput{
		DocumentID:    "doc-1",
		Type:          domain.AnnotationHighlight,
		HighlightText: "selected text",
		PageNumber:    3,
	}
	rec := ts.request(t, http.MethodPost, "/api/v1/annotations", in, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for dedup", rec.Code)
	}

	body := decodeBody[driving.SaveResult](t, rec)
	if !body.Deduped {
		t.Error("expected deduped result")
	}
}

func TestHandleSaveAnnotationInvalid(t *testing.T) {
	ts := newTestServer()
	ts.annotations.saveFn = func(ctx context.Context, userID string, in *domain.AnnotationInput) (*driving.SaveResult, error) {
		return nil, domain.ErrInvalidInput
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/annotations", domain.AnnotationInput{}, "good-token")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleListAnnotations(t *testing.T) {
	ts := newTestServer()
	ts.annotations.listFn = func(ctx context.Context, userID, documentID string) ([]*domain.AnnotationRecord, error) {
		if documentID != "doc-1" {
			t.Errorf("documentID = %q", documentID)
		}
		return []*domain.AnnotationRecord{{ID: "a1"}, {ID: "a2"}}, nil
	}

	rec := ts.request(t, http.MethodGet, "/api/v1/annotations?document_id=doc-1", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[[]*domain.AnnotationRecord](t, rec)
	if len(body) != 2 {
		t.Errorf("got %d records, want 2", len(body))
	}
}

func TestHandleListAnnotationsMissingDocument(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodGet, "/api/v1/annotations", nil, "good-token")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteAnnotation(t *testing.T) {
	ts := newTestServer()
	ts.annotations.deleteFn = func(ctx context.Context, userID, annotationID string) error {
		if annotationID != "a1" {
			t.Errorf("annotationID = %q", annotationID)
		}
		return nil
	}

	rec := ts.request(t, http.MethodDelete, "/api/v1/annotations/a1", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleDeleteAnnotationForbidden(t *testing.T) {
	ts := newTestServer()
	ts.annotations.deleteFn = func(ctx context.Context, userID, annotationID string) error {
		return domain.ErrForbidden
	}

	rec := ts.request(t, http.MethodDelete, "/api/v1/annotations/a1", nil, "good-token")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleLinkMessage(t *testing.T) {
	ts := newTestServer()
	ts.annotations.linkMessageFn = func(ctx context.Context, userID, messageID, annotationID string) error {
		if messageID != "msg-1" || annotationID != "a1" {
			t.Errorf("link args = %q %q", messageID, annotationID)
		}
		return nil
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/annotations/a1/link",
		LinkMessageRequest{MessageID: "msg-1"}, "good-token")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleLinkMessageMissingID(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/api/v1/annotations/a1/link",
		LinkMessageRequest{}, "good-token")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUnlinkMessage(t *testing.T) {
	ts := newTestServer()
	called := false
	ts.annotations.unlinkMessageFn = func(ctx context.Context, userID, documentID, messageID string) error {
		called = true
		if documentID != "doc-1" || messageID != "msg-1" {
			t.Errorf("unlink args = %q %q", documentID, messageID)
		}
		return nil
	}

	rec := ts.request(t, http.MethodDelete, "/api/v1/documents/doc-1/messages/msg-1", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !called {
		t.Error("unlink was not invoked")
	}
}

// Grounding endpoints

func TestHandleGroundBatch(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/api/v1/documents/doc-1/ground",
		GroundRequest{MessageID: "msg-1", Answers: []string{"first answer", "second answer"}}, "good-token")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	if len(ts.queue.enqueued) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(ts.queue.enqueued))
	}
	task := ts.queue.enqueued[0]
	if task.Type != domain.TaskTypeGroundBatch {
		t.Errorf("task type = %q", task.Type)
	}
	if task.UserID != "user-1" || task.DocumentID() != "doc-1" || task.MessageID() != "msg-1" {
		t.Errorf("task scope = %q %q %q", task.UserID, task.DocumentID(), task.MessageID())
	}
	answers, err := task.Answers()
	if err != nil || len(answers) != 2 {
		t.Errorf("answers = %v, %v", answers, err)
	}

	body := decodeBody[TaskResponse](t, rec)
	if body.TaskID != task.ID || body.Status != "queued" {
		t.Errorf("response = %+v", body)
	}
}

func TestHandleGroundBatchEmptyAnswers(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/api/v1/documents/doc-1/ground",
		GroundRequest{}, "good-token")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(ts.queue.enqueued) != 0 {
		t.Error("nothing should be enqueued")
	}
}

func TestHandleGroundBatchQueueFailure(t *testing.T) {
	ts := newTestServer()
	ts.queue.enqueueFn = func(ctx context.Context, task *domain.Task) error {
		return errors.New("queue down")
	}

	rec := ts.request(t, http.MethodPost, "/api/v1/documents/doc-1/ground",
		GroundRequest{Answers: []string{"answer"}}, "good-token")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleGetHighlights(t *testing.T) {
	ts := newTestServer()
	ts.grounding.highlightsFn = func(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error) {
		if page != 2 {
			t.Errorf("page = %d", page)
		}
		return []*domain.Highlight{{ID: "h1", PageNumber: 2}}, nil
	}

	rec := ts.request(t, http.MethodGet, "/api/v1/documents/doc-1/highlights?page=2", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[[]*domain.Highlight](t, rec)
	if len(body) != 1 || body[0].ID != "h1" {
		t.Errorf("highlights = %+v", body)
	}
}

func TestHandleGetHighlightsInvalidPage(t *testing.T) {
	ts := newTestServer()

	for _, path := range []string{
		"/api/v1/documents/doc-1/highlights",
		"/api/v1/documents/doc-1/highlights?page=0",
		"/api/v1/documents/doc-1/highlights?page=abc",
	} {
		rec := ts.request(t, http.MethodGet, path, nil, "good-token")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestHandleGetHighlightsDocumentMissing(t *testing.T) {
	ts := newTestServer()
	ts.grounding.highlightsFn = func(ctx context.Context, userID, documentID string, page int) ([]*domain.Highlight, error) {
		return nil, domain.ErrNotFound
	}

	rec := ts.request(t, http.MethodGet, "/api/v1/documents/missing/highlights?page=1", nil, "good-token")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleRestoreHighlights(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodPost, "/api/v1/documents/doc-1/highlights/restore", nil, "good-token")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	if len(ts.queue.enqueued) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(ts.queue.enqueued))
	}
	task := ts.queue.enqueued[0]
	if task.Type != domain.TaskTypeRestoreHighlights || task.DocumentID() != "doc-1" {
		t.Errorf("task = %+v", task)
	}
}

func TestHandleCloseSession(t *testing.T) {
	ts := newTestServer()

	rec := ts.request(t, http.MethodDelete, "/api/v1/documents/doc-1/session", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if len(ts.grounding.closedSessions) != 1 || ts.grounding.closedSessions[0] != "user-1/doc-1" {
		t.Errorf("closed sessions = %v", ts.grounding.closedSessions)
	}
}

// Task endpoints

func TestHandleGetTask(t *testing.T) {
	ts := newTestServer()
	ts.queue.getTaskFn = func(ctx context.Context, taskID string) (*domain.Task, error) {
		return &domain.Task{ID: taskID, UserID: "user-1", Status: domain.TaskStatusCompleted}, nil
	}

	rec := ts.request(t, http.MethodGet, "/api/v1/tasks/t1", nil, "good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[domain.Task](t, rec)
	if body.Status != domain.TaskStatusCompleted {
		t.Errorf("status = %q", body.Status)
	}
}

func TestHandleGetTaskOtherUser(t *testing.T) {
	ts := newTestServer()
	ts.queue.getTaskFn = func(ctx context.Context, taskID string) (*domain.Task, error) {
		return &domain.Task{ID: taskID, UserID: "someone-else"}, nil
	}

	rec := ts.request(t, http.MethodGet, "/api/v1/tasks/t1", nil, "good-token")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
