package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"truthle-quiz-service/internal/app"
	"truthle-quiz-service/internal/domain"
	"truthle-quiz-service/internal/infra/memory"
)

type stubDaily struct{}

func (stubDaily) GetDaily(_ context.Context, date string) (domain.DailyQuiz, error) {
	return domain.DailyQuiz{
		Date: date,
		Questions: []domain.Question{
			{ID: "highest-health.lifeExpectancy", Kind: domain.KindHighest, Prompt: "Which country has the highest life expectancy?", Options: []string{"Japan", "Chad", "Haiti", "Yemen"}, CorrectIndex: 0},
		},
	}, nil
}

func newTestServer() (*httptest.Server, *app.PostbackService) {
	boards := memory.NewBoardStore()
	ledger := memory.NewCoinLedger()
	attempts := app.NewAttemptService(memory.NewProgressCache(), memory.NewAttemptStore(), ledger, boards, nil)
	postback := app.NewPostbackService(ledger, "test-secret", nil)

	handler := NewHandler(stubDaily{}, attempts, postback, app.NewUUIDIdentityProvider(), boards, nil)
	mux := http.NewServeMux()
	handler.Register(mux)
	return httptest.NewServer(mux), postback
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetDaily(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/daily?date=2025-02-14")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var quiz domain.DailyQuiz
	if err := json.NewDecoder(resp.Body).Decode(&quiz); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quiz.Date != "2025-02-14" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestIdentityEndpoint(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/identity", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["identity"] == "" {
		t.Fatalf("expected a generated identity")
	}

	resp2, err := http.Post(server.URL+"/api/identity?identity=existing-token", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp2.Body.Close()
	var body2 map[string]string
	_ = json.NewDecoder(resp2.Body).Decode(&body2)
	if body2["identity"] != "existing-token" {
		t.Fatalf("existing identity must pass through, got %q", body2["identity"])
	}

	if resp3, _ := http.Get(server.URL + "/api/identity"); resp3.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET should be rejected, got %d", resp3.StatusCode)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestRecordAndStatusFlow(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	// before playing, status reports unplayed
	resp, err := http.Get(server.URL + "/api/daily/status?identity=u1&date=2025-02-14")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	var status map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if status["played"] != false {
		t.Fatalf("expected unplayed, got %v", status)
	}

	record := map[string]any{
		"identity": "u1",
		"date":     "2025-02-14",
		"correct":  []bool{true, true, false},
		"times":    []float64{2.0, 6.0, 20.0},
	}
	resp = postJSON(t, server.URL+"/api/attempts", record)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("record: expected 200, got %d", resp.StatusCode)
	}
	var result app.RecordResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	// 2 correct * 100, speed 50 + 30, streak 1 adds 5%: 280 + 14
	if result.Score.Total != 294 {
		t.Fatalf("unexpected total %d (%+v)", result.Score.Total, result.Score)
	}
	if result.AlreadyPlayed {
		t.Fatalf("first record flagged as replay")
	}

	resp, _ = http.Get(server.URL + "/api/daily/status?identity=u1&date=2025-02-14")
	status = map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if status["played"] != true {
		t.Fatalf("expected played after record, got %v", status)
	}

	// replay returns the stored attempt
	resp = postJSON(t, server.URL+"/api/attempts", record)
	var replay app.RecordResult
	_ = json.NewDecoder(resp.Body).Decode(&replay)
	resp.Body.Close()
	if !replay.AlreadyPlayed || replay.Attempt.Score != result.Attempt.Score {
		t.Fatalf("unexpected replay %+v", replay)
	}
}

func TestRecordRejectsBadPayload(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/attempts", map[string]any{
		"identity": "u1",
		"date":     "2025-02-14",
		"correct":  []bool{true, true},
		"times":    []float64{2.0},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched lengths, got %d", resp.StatusCode)
	}
}

func TestShopEndpoint(t *testing.T) {
	server, _ := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/shop?identity=u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Items   []map[string]any `json:"items"`
		Balance *int64           `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) == 0 {
		t.Fatalf("expected catalog items")
	}
	if body.Balance == nil || *body.Balance != 0 {
		t.Fatalf("expected zero balance, got %v", body.Balance)
	}
}

func TestPostbackEndpoint(t *testing.T) {
	server, postback := newTestServer()
	defer server.Close()

	req := map[string]any{
		"identity":  "u1",
		"offerId":   "offer-7",
		"amount":    300,
		"signature": postback.Signature("u1", "offer-7", 300),
	}

	resp := postJSON(t, server.URL+"/postback", req)
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["status"] != "credited" {
		t.Fatalf("expected credited, got %d %v", resp.StatusCode, body)
	}
	if body["balance"].(float64) != 300 {
		t.Fatalf("expected balance 300, got %v", body["balance"])
	}

	// a duplicate is acknowledged without crediting again
	resp = postJSON(t, server.URL+"/postback", req)
	body = map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["status"] != "duplicate" {
		t.Fatalf("expected duplicate ack, got %d %v", resp.StatusCode, body)
	}

	// a forged signature is rejected
	req["signature"] = "deadbeef"
	req["offerId"] = "offer-8"
	resp = postJSON(t, server.URL+"/postback", req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
