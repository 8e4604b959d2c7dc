package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/krishimitra/server/internal/chat"
	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/inference"
	"github.com/krishimitra/server/internal/knowledge"
	"github.com/krishimitra/server/internal/market"
	"github.com/krishimitra/server/internal/sensor"
	"github.com/krishimitra/server/internal/session"
	"github.com/krishimitra/server/internal/store"
	"github.com/krishimitra/server/internal/weather"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

// newTestRouter wires a full router against a temp database, the in-memory
// session store, and offline fallbacks for every external service.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	sessions, err := session.NewStore(session.StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	llmClient := &fakeLLM{reply: "generated reply"}
	chatSvc := chat.NewService(llmClient, knowledge.MustLoad(), nil)
	weatherClient := weather.NewClient("", 0, 0, nil)
	engine := inference.NewEngine(nil, llmClient, nil)
	sensorSvc := sensor.NewService(repo, weatherClient, engine, nil)
	hub := sensor.NewHub()
	stream := sensor.NewWebSocketHandler(sensorSvc, hub, "", true, nil)
	marketSvc := market.NewService(market.NewClient(nil), llmClient, nil)

	h := NewHandler(repo, sessions, chatSvc, sensorSvc, stream, engine, marketSvc, weatherClient, nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var got map[string]string
	decodeBody(t, w, &got)
	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, "boom")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var got map[string]string
	decodeBody(t, w, &got)
	if got["error"] != "boom" {
		t.Errorf("Expected error=boom, got %v", got["error"])
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got map[string]string
	decodeBody(t, w, &got)
	if got["database"] != "ok" {
		t.Errorf("database = %q, want ok", got["database"])
	}
	if got["model_server"] != "disabled" {
		t.Errorf("model_server = %q, want disabled", got["model_server"])
	}
}

func TestChatSessionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	// Create.
	w := doJSON(t, r, http.MethodPost, "/api/chat/session", `{"language":"hi"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", w.Code, w.Body.String())
	}
	var sess domain.ChatSession
	decodeBody(t, w, &sess)
	if sess.ID == "" || sess.Language != "hi" {
		t.Fatalf("created session = %+v", sess)
	}

	// Get.
	w = doJSON(t, r, http.MethodGet, "/api/chat/session/"+sess.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	// Send a greeting; the reply is the canned greeting, not the fake LLM.
	w = doJSON(t, r, http.MethodPost, "/api/chat/session/"+sess.ID+"/message", `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("message status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Session domain.ChatSession `json:"session"`
		Reply   domain.Message     `json:"reply"`
	}
	decodeBody(t, w, &resp)
	if resp.Reply.Role != domain.RoleAssistant || resp.Reply.Content == "" {
		t.Errorf("reply = %+v", resp.Reply)
	}
	if len(resp.Session.Messages) != 2 {
		t.Errorf("session has %d messages, want 2", len(resp.Session.Messages))
	}

	// Language switch.
	w = doJSON(t, r, http.MethodPut, "/api/chat/session/"+sess.ID+"/language", `{"language":"mr"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("language status = %d", w.Code)
	}
	var updated domain.ChatSession
	decodeBody(t, w, &updated)
	if updated.Language != "mr" {
		t.Errorf("language = %q, want mr", updated.Language)
	}
	if len(updated.Messages) != 2 {
		t.Errorf("language switch dropped messages: %d left", len(updated.Messages))
	}

	// Delete, then the session is gone.
	w = doJSON(t, r, http.MethodDelete, "/api/chat/session/"+sess.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/chat/session/"+sess.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestChatSessionValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat/session", `{"language":"fr"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsupported language status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/chat/session/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/chat/session/nonexistent/message", `{"message":"hi"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("message to missing session status = %d, want 404", w.Code)
	}
}

func TestSendMessageDetectsLanguage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat/session", `{"language":"en"}`)
	var sess domain.ChatSession
	decodeBody(t, w, &sess)

	// A Devanagari message switches the session to Hindi.
	w = doJSON(t, r, http.MethodPost, "/api/chat/session/"+sess.ID+"/message", `{"message":"मिट्टी कैसे सुधारें"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Session domain.ChatSession `json:"session"`
	}
	decodeBody(t, w, &resp)
	if resp.Session.Language != "hi" {
		t.Errorf("session language = %q, want hi after detection", resp.Session.Language)
	}
}

func TestLanguages(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/chat/languages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Languages []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"languages"`
	}
	decodeBody(t, w, &got)
	if len(got.Languages) != 9 {
		t.Errorf("got %d languages, want 9", len(got.Languages))
	}
	if got.Languages[0].Code != "en" {
		t.Errorf("first language = %q, want en", got.Languages[0].Code)
	}
}

func TestQuickQuestions(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/chat/questions?language=mr", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Language  string   `json:"language"`
		Questions []string `json:"questions"`
	}
	decodeBody(t, w, &got)
	if got.Language != "mr" || len(got.Questions) == 0 {
		t.Errorf("quick questions = %+v", got)
	}
}

func TestAgriTerms(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/chat/terms?language=hi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Language string            `json:"language"`
		Terms    map[string]string `json:"terms"`
	}
	decodeBody(t, w, &got)
	if got.Language != "hi" {
		t.Errorf("language = %q, want hi", got.Language)
	}
	if got.Terms["soil"] != "मिट्टी" {
		t.Errorf(`terms["soil"] = %q, want मिट्टी`, got.Terms["soil"])
	}

	// Unsupported languages fall back to English per term.
	w = doJSON(t, r, http.MethodGet, "/api/chat/terms?language=fr", "")
	decodeBody(t, w, &got)
	if got.Terms["soil"] != "soil" {
		t.Errorf(`fallback terms["soil"] = %q, want soil`, got.Terms["soil"])
	}
}

func TestSendMessageRateLimitedByAddress(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/chat/session", `{"language":"en"}`)
	var sess domain.ChatSession
	decodeBody(t, w, &sess)

	// No identity middleware in this router, so the limiter keys on the
	// remote address. The 21st message in the window is rejected.
	var last int
	for i := 0; i < 21; i++ {
		w = doJSON(t, r, http.MethodPost, "/api/chat/session/"+sess.ID+"/message", `{"message":"hello"}`)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("21st message status = %d, want 429", last)
	}
}

func TestSensorEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/sensor/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d, body: %s", w.Code, w.Body.String())
	}
	var snap domain.SensorSnapshot
	decodeBody(t, w, &snap)
	if len(snap.MoistureData) == 0 || len(snap.WeeklyWeather) != 7 {
		t.Errorf("snapshot incomplete: %d series points, %d weather days",
			len(snap.MoistureData), len(snap.WeeklyWeather))
	}

	w = doJSON(t, r, http.MethodPost, "/api/sensor/update", `{"threshold":65}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/sensor/update", `{"threshold":150}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range threshold status = %d, want 400", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/sensor/update", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing threshold status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/sensor/irrigate", `{"irrigation":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("irrigate status = %d", w.Code)
	}

	// Settings are reflected in the next snapshot.
	w = doJSON(t, r, http.MethodGet, "/api/sensor/", "")
	decodeBody(t, w, &snap)
	if snap.Threshold != 65 || !snap.Irrigation {
		t.Errorf("snapshot settings = %v/%v, want 65/true", snap.Threshold, snap.Irrigation)
	}
}

func TestSoilHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/sensor/soil-health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var health domain.SoilHealth
	decodeBody(t, w, &health)
	if health.HealthCategory == "" || health.HealthIndex <= 0 {
		t.Errorf("soil health = %+v", health)
	}
}

func TestWeatherEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/sensor/weather", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]any
	decodeBody(t, w, &got)
	for _, key := range []string{"temperature", "humidity", "aqi"} {
		if _, ok := got[key]; !ok {
			t.Errorf("weather payload missing %q", key)
		}
	}
	// Without an API key the payload is fallback data, flagged as not live.
	if live, ok := got["live"].(bool); !ok || live {
		t.Errorf("live = %v, want false", got["live"])
	}
}

func TestCropPredict(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/crop/predict", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var got struct {
		Recommendations []domain.CropRecommendation `json:"recommendations"`
		ModelUsed       bool                        `json:"model_used"`
	}
	decodeBody(t, w, &got)
	if len(got.Recommendations) == 0 {
		t.Error("no recommendations returned")
	}
	if got.ModelUsed {
		t.Error("model_used = true with no model server")
	}

	// Overrides shape the result: rice conditions put rice on top.
	w = doJSON(t, r, http.MethodPost, "/crop/predict",
		`{"temperature":28,"humidity":80,"ph":6.5,"rainfall":1500}`)
	decodeBody(t, w, &got)
	if got.Recommendations[0].Crop != "rice" {
		t.Errorf("top crop = %q, want rice", got.Recommendations[0].Crop)
	}
}

func TestPlantPredict(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/plant/predict", `{"image":"data:image/jpeg;base64,aW1hZ2U="}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var pred domain.DiseasePrediction
	decodeBody(t, w, &pred)
	if pred.DiseaseName == "" || pred.Treatment == "" || pred.Prevention == "" {
		t.Errorf("prediction incomplete: %+v", pred)
	}

	w = doJSON(t, r, http.MethodPost, "/plant/predict", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing image status = %d, want 400", w.Code)
	}
}

func TestForumEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/forum/posts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var posts []domain.ForumPost
	decodeBody(t, w, &posts)
	if len(posts) != 0 {
		t.Errorf("fresh forum has %d posts", len(posts))
	}

	w = doJSON(t, r, http.MethodPost, "/api/forum/posts",
		`{"title":"पीक विमा","body":"पीक विम्याबद्दल माहिती हवी आहे"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", w.Code, w.Body.String())
	}
	var post domain.ForumPost
	decodeBody(t, w, &post)
	if post.ID == "" || post.Author == "" {
		t.Errorf("created post = %+v", post)
	}
	// Language detected from the Marathi body.
	if post.Language != "mr" {
		t.Errorf("detected language = %q, want mr", post.Language)
	}

	w = doJSON(t, r, http.MethodPost, "/api/forum/posts/"+post.ID+"/like", "")
	if w.Code != http.StatusOK {
		t.Fatalf("like status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/forum/posts/missing/like", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("like missing status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/forum/posts", `{"title":"","body":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty post status = %d, want 400", w.Code)
	}
}
