package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/territoriodigital/congregacao/internal/auth"
	"github.com/territoriodigital/congregacao/internal/config"
	"github.com/territoriodigital/congregacao/internal/model"
	"github.com/territoriodigital/congregacao/internal/store"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter() (http.Handler, *store.Store) {
	cfg := &config.Config{
		Port:            8080,
		JWTSecret:       "segredo-de-teste-com-32-caracteres!!",
		JWTAccessTTL:    time.Hour,
		BaseURL:         "https://territorios.example/",
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	st := store.New(store.Config{
		CongregationID:   "CONG-SUL-PELOTAS",
		CongregationName: "Sul Pelotas",
		TerritoryCount:   25,
		DefaultImageURL:  "https://example.com/mapa.png",
		BaseURL:          cfg.BaseURL,
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	return NewRouter(cfg, st, jwtManager), st
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func login(t *testing.T, router http.Handler, name, email string, isAdmin bool) string {
	t.Helper()

	rec, env := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"name":    name,
		"email":   email,
		"isAdmin": isAdmin,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/territorios"},
		{http.MethodGet, "/historico"},
		{http.MethodGet, "/usuarios"},
		{http.MethodGet, "/backup"},
		{http.MethodGet, "/me"},
	}

	for _, tc := range paths {
		rec, env := doRequest(t, router, tc.method, tc.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s expected 401 got %d", tc.method, tc.path, rec.Code)
		}
		if env.Error == nil || env.Error.Code != "AUTH" {
			t.Fatalf("%s %s expected AUTH error envelope", tc.method, tc.path)
		}
	}
}

func TestTerritoryLifecycleOverHTTP(t *testing.T) {
	router, st := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", false)

	rec, env := doRequest(t, router, http.MethodGet, "/territorios", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list territories: %d", rec.Code)
	}
	var territories []model.Territory
	if err := json.Unmarshal(env.Data, &territories); err != nil {
		t.Fatalf("decode territories: %v", err)
	}
	if len(territories) != 25 {
		t.Fatalf("expected 25 territories got %d", len(territories))
	}

	rec, env = doRequest(t, router, http.MethodPost, "/territorios/3/status", token, map[string]string{"status": "Occupied"})
	if rec.Code != http.StatusOK {
		t.Fatalf("take territory: %d %s", rec.Code, rec.Body.String())
	}
	var territory model.Territory
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode territory: %v", err)
	}
	if territory.Status != model.StatusOccupied || territory.PublisherName != "Ana Lima" {
		t.Fatalf("territory not taken: %+v", territory)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/historico", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d", rec.Code)
	}
	var history []model.HistoryLog
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 1 || history[0].Action != model.ActionTaken {
		t.Fatalf("unexpected history: %+v", history)
	}

	// "Returned" é aceito como sinônimo de devolução.
	rec, env = doRequest(t, router, http.MethodPost, "/territorios/3/status", token, map[string]string{"status": "Returned"})
	if rec.Code != http.StatusOK {
		t.Fatalf("return territory: %d", rec.Code)
	}
	territory = model.Territory{}
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode territory: %v", err)
	}
	if territory.Status != model.StatusAvailable || territory.PublisherID != "" {
		t.Fatalf("territory not returned: %+v", territory)
	}

	if got, _ := st.Territory(3); got.Status != model.StatusAvailable {
		t.Fatalf("store out of sync: %+v", got)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/territorios/999/status", token, map[string]string{"status": "Occupied"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown territory expected 404 got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/territorios/3/status", token, map[string]string{"status": "Emprestado"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status expected 400 got %d", rec.Code)
	}
}

func TestObservationAndConfigOverHTTP(t *testing.T) {
	router, _ := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", false)

	rec, env := doRequest(t, router, http.MethodPut, "/territorios/2/observacoes", token, map[string]string{"text": "Cuidado com o cachorro."})
	if rec.Code != http.StatusOK {
		t.Fatalf("observation: %d", rec.Code)
	}
	var territory model.Territory
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if territory.Observations != "Cuidado com o cachorro." {
		t.Fatalf("observation not applied: %+v", territory)
	}

	rec, env = doRequest(t, router, http.MethodPatch, "/territorios/2/config", token, map[string]string{"googleMapsLink": "https://www.google.com/maps"})
	if rec.Code != http.StatusOK {
		t.Fatalf("config: %d", rec.Code)
	}
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if territory.GoogleMapsLink != "https://www.google.com/maps" {
		t.Fatalf("config not merged: %+v", territory)
	}
	if territory.Observations != "Cuidado com o cachorro." {
		t.Fatalf("config update must not touch observations: %+v", territory)
	}
}

func TestDrawingOverHTTP(t *testing.T) {
	router, st := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", false)

	doRequest(t, router, http.MethodPost, "/territorios/1/status", token, map[string]string{"status": "Occupied"})

	rec, _ := doRequest(t, router, http.MethodPost, "/territorios/1/desenho/tracos", token, map[string]any{
		"points": []map[string]int{{"x": 10, "y": 10}},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("stroke without open surface expected 409 got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/territorios/1/desenho/abrir", token, map[string]int{"width": 320, "height": 480})
	if rec.Code != http.StatusOK {
		t.Fatalf("open drawing: %d %s", rec.Code, rec.Body.String())
	}

	rec, env := doRequest(t, router, http.MethodPost, "/territorios/1/desenho/tracos", token, map[string]any{
		"points": []map[string]int{{"x": 10, "y": 10}, {"x": 40, "y": 60}, {"x": 80, "y": 90}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("stroke: %d %s", rec.Code, rec.Body.String())
	}
	var territory model.Territory
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(territory.DrawingData, "data:image/png;base64,") {
		t.Fatalf("stroke release must persist a data URL, got %.40q", territory.DrawingData)
	}

	rec, env = doRequest(t, router, http.MethodDelete, "/territorios/1/desenho/", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear drawing: %d", rec.Code)
	}
	territory = model.Territory{}
	if err := json.Unmarshal(env.Data, &territory); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if territory.DrawingData != "" {
		t.Fatalf("clear must null drawingData: %+v", territory)
	}

	if got, _ := st.Territory(1); got.DrawingData != "" {
		t.Fatalf("store out of sync after clear: %+v", got)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	router, _ := newTestRouter()

	adminToken := login(t, router, "Ana Lima", "ana@example.com", true)
	publisherToken := login(t, router, "Pedro Costa", "pedro@example.com", false)

	rec, _ := doRequest(t, router, http.MethodPut, "/congregacao", publisherToken, map[string]any{"name": "Sul Pelotas", "territoryCount": 30})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("publisher resize expected 403 got %d", rec.Code)
	}

	rec, env := doRequest(t, router, http.MethodPut, "/congregacao", adminToken, map[string]any{"name": "Sul Pelotas", "territoryCount": 30})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin resize: %d %s", rec.Code, rec.Body.String())
	}
	var congregation model.Congregation
	if err := json.Unmarshal(env.Data, &congregation); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if congregation.TerritoryCount != 30 {
		t.Fatalf("resize not applied: %+v", congregation)
	}

	rec, _ = doRequest(t, router, http.MethodDelete, "/usuarios/pedroexamplecom", publisherToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("publisher remove expected 403 got %d", rec.Code)
	}
}

func TestInviteForcesPublisherRole(t *testing.T) {
	router, _ := newTestRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]any{
		"name":    "Maria Souza",
		"email":   "maria@example.com",
		"isAdmin": true,
		"invite":  "CONG-SUL-PELOTAS",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("invite login: %d", rec.Code)
	}

	var resp struct {
		User model.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Role != model.RolePublisher {
		t.Fatalf("invitee must always be a publisher, got %s", resp.User.Role)
	}
}

func TestInviteLinkEndpoint(t *testing.T) {
	router, _ := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", true)

	rec, env := doRequest(t, router, http.MethodGet, "/congregacao/convite", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("invite: %d", rec.Code)
	}

	var resp struct {
		Link       string `json:"link"`
		QRImageURL string `json:"qrImageUrl"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Link, "invite=CONG-SUL-PELOTAS") {
		t.Fatalf("invite link missing congregation id: %q", resp.Link)
	}
	if !strings.Contains(resp.QRImageURL, "qr") {
		t.Fatalf("unexpected qr image url: %q", resp.QRImageURL)
	}
}

func TestBackupDownloadAndRestore(t *testing.T) {
	router, _ := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", true)

	doRequest(t, router, http.MethodPost, "/territorios/3/status", token, map[string]string{"status": "Occupied"})

	rec, _ := doRequest(t, router, http.MethodGet, "/backup", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: %d", rec.Code)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "backup-sul-pelotas-") || !strings.Contains(disposition, ".json") {
		t.Fatalf("unexpected content disposition %q", disposition)
	}
	exported := rec.Body.Bytes()

	// Restaura o documento exportado em um servidor limpo.
	freshRouter, freshStore := newTestRouter()
	freshToken := login(t, freshRouter, "Ana Lima", "ana@example.com", true)

	req := httptest.NewRequest(http.MethodPost, "/backup/restaurar", bytes.NewReader(exported))
	req.Header.Set("Authorization", "Bearer "+freshToken)
	restoreRec := httptest.NewRecorder()
	freshRouter.ServeHTTP(restoreRec, req)
	if restoreRec.Code != http.StatusOK {
		t.Fatalf("restore: %d %s", restoreRec.Code, restoreRec.Body.String())
	}

	if territory, _ := freshStore.Territory(3); territory.Status != model.StatusOccupied {
		t.Fatalf("restored store missing taken territory: %+v", territory)
	}

	req = httptest.NewRequest(http.MethodPost, "/backup/restaurar", strings.NewReader("{quebrado"))
	req.Header.Set("Authorization", "Bearer "+freshToken)
	restoreRec = httptest.NewRecorder()
	freshRouter.ServeHTTP(restoreRec, req)
	if restoreRec.Code != http.StatusBadRequest {
		t.Fatalf("malformed restore expected 400 got %d", restoreRec.Code)
	}
}

func TestSummarizeDegradesWithoutAPIKey(t *testing.T) {
	router, _ := newTestRouter()
	token := login(t, router, "Ana Lima", "ana@example.com", false)

	rec, env := doRequest(t, router, http.MethodPost, "/observacoes/resumir", token, map[string]string{"text": "muitas observações acumuladas"})
	if rec.Code != http.StatusOK {
		t.Fatalf("summarize: %d", rec.Code)
	}

	var resp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != "Error generating summary." {
		t.Fatalf("expected fixed fallback message, got %q", resp.Summary)
	}
}
