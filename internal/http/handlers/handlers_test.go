package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lookbook/internal/batch"
	"lookbook/internal/domain"
	"lookbook/internal/http/handlers"
	"lookbook/internal/http/httpapi"
	"lookbook/internal/infra"
	"lookbook/internal/middleware"
	"lookbook/internal/poses"
	"lookbook/internal/preview"
	"lookbook/internal/providers/generation"
	"lookbook/internal/session"
)

const testSecret = "test-secret"

const poseYAML = `
poses:
  - id: f-stand
    name: Standing
    gender: female
    text: standing straight, hands relaxed
  - id: f-side
    name: Side
    gender: female
    tags: [yan_aci]
    text: turned three quarters to the left
`

type stubGenerator struct {
	mu        sync.Mutex
	previews  []generation.Request
	commits   []generation.Request
	imageBase string
}

func (g *stubGenerator) Preview(ctx context.Context, req generation.Request) (*generation.PreviewResult, error) {
	g.mu.Lock()
	g.previews = append(g.previews, req)
	g.mu.Unlock()
	return &generation.PreviewResult{Previews: []generation.PreviewItem{{
		Prompt:     "prompt for " + string(req.View),
		Structured: json.RawMessage(`{"view":"` + string(req.View) + `"}`),
	}}}, nil
}

func (g *stubGenerator) Commit(ctx context.Context, req generation.Request) (*generation.CommitResult, error) {
	g.mu.Lock()
	g.commits = append(g.commits, req)
	base := g.imageBase
	g.mu.Unlock()
	if base == "" {
		base = "https://cdn.test/out/"
	}
	return &generation.CommitResult{Images: []string{base + string(req.View) + ".png"}}, nil
}

type memLedger struct {
	mu       sync.Mutex
	balances map[string]int
}

func (l *memLedger) Charge(ctx context.Context, accountID string, amount int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[accountID] < amount {
		return 0, domain.ErrInsufficientCredit
	}
	l.balances[accountID] -= amount
	return l.balances[accountID], nil
}

func (l *memLedger) Balance(ctx context.Context, accountID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[accountID], nil
}

type memFiles struct{}

func (memFiles) PutLowFidelity(ctx context.Context, sessionID, slot string, data []byte) (string, error) {
	return "https://cdn.test/static/sessions/" + sessionID + "/" + slot + ".jpg", nil
}

type harness struct {
	handler  http.Handler
	logs     *bytes.Buffer
	gen      *stubGenerator
	ledger   *memLedger
	registry *batch.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	lib, err := poses.ParseLibraryYAML([]byte(poseYAML))
	if err != nil {
		t.Fatalf("ParseLibraryYAML: %v", err)
	}
	gen := &stubGenerator{}
	ledger := &memLedger{balances: map[string]int{"acct-1": 10, "broke": 0}}
	store := session.NewMemoryStore()
	registry := batch.NewRegistry(batch.NewExecutor(batch.Options{Generator: gen, Ledger: ledger}), time.Minute)
	logs := &bytes.Buffer{}
	logger := infra.Logger(zerolog.New(logs))
	app := handlers.NewApp(handlers.App{
		Logger: &logger,
		Sessions: session.NewManager(session.Options{
			Store:     store,
			Debouncer: session.NewDebouncer(store, 10*time.Millisecond, nil),
			Files:     memFiles{},
		}),
		Poses:    lib,
		Previews: preview.NewAssembler(preview.Options{Generator: gen}),
		Batches:  registry,
		Ledger:   ledger,
	})
	cfg := &infra.Config{JWTSecret: testSecret, RateLimitPerMin: 1000}
	return &harness{
		handler:  httpapi.NewRouter(app, httpapi.Options{Config: cfg}),
		logs:     logs,
		gen:      gen,
		ledger:   ledger,
		registry: registry,
	}
}

func token(t *testing.T, account string) string {
	t.Helper()
	tok, err := middleware.SignJWT(testSecret, middleware.TokenClaims{Sub: account, Exp: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return tok
}

func (h *harness) do(t *testing.T, account, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if account != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, account))
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 96))
	for y := 0; y < 96; y++ {
		img.Set(y%64, y, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error.Code
}

func TestHealthIsPublic(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, "", http.MethodGet, "/v1/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := h.do(t, "", http.MethodPost, "/v1/framing", map[string]string{}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("framing without token = %d, want 401", rec.Code)
	}
}

func TestFraming(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "acct-1", http.MethodPost, "/v1/framing", map[string]string{"pose_focus": "closeup"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Mode   domain.FramingMode     `json:"framing_mode"`
		Flags  domain.CapabilityFlags `json:"flags"`
		Camera domain.Camera          `json:"camera"`
	}
	decodeBody(t, rec, &got)
	if got.Mode != domain.FramingChestAndFace || got.Camera != domain.CameraCloseUp {
		t.Fatalf("framing = %+v", got)
	}
	if got.Flags.HasFeet || !got.Flags.CanShowFaceDetails {
		t.Fatalf("flags = %+v", got.Flags)
	}
}

func TestPlanShots(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{name: "standard", body: map[string]any{"family": "standard", "pose_focus": "full"}, want: 8},
		{name: "workflow upper", body: map[string]any{"family": "workflow", "workflow": "upper"}, want: 5},
		{name: "workflow inferred lower", body: map[string]any{"family": "workflow", "product_name": "Wide Leg Jeans"}, want: 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, "acct-1", http.MethodPost, "/v1/shots/plan", tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var got struct {
				Shots []domain.ShotSpec `json:"shots"`
			}
			decodeBody(t, rec, &got)
			if len(got.Shots) != tc.want {
				t.Fatalf("shots = %d, want %d", len(got.Shots), tc.want)
			}
		})
	}

	rec := h.do(t, "acct-1", http.MethodPost, "/v1/shots/plan", map[string]any{"side_only_view": "styling_full"})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_side_only" {
		t.Fatalf("side only on styling view = %d %s", rec.Code, rec.Body.String())
	}
}

func createSession(t *testing.T, h *harness, account string, body map[string]any) string {
	t.Helper()
	rec := h.do(t, account, http.MethodPost, "/v1/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var st session.State
	decodeBody(t, rec, &st)
	return st.ID
}

func TestSessionOwnership(t *testing.T) {
	h := newHarness(t)
	id := createSession(t, h, "acct-1", nil)
	if rec := h.do(t, "acct-1", http.MethodGet, "/v1/sessions/"+id, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner get = %d", rec.Code)
	}
	if rec := h.do(t, "acct-2", http.MethodGet, "/v1/sessions/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign get = %d, want 404", rec.Code)
	}
}

func TestSessionOptionsAndAssets(t *testing.T) {
	h := newHarness(t)
	id := createSession(t, h, "acct-1", map[string]any{"pose_focus": "full"})
	base := "/v1/sessions/" + id

	if rec := h.do(t, "acct-1", http.MethodPut, base+"/options/shoe_style", map[string]string{"value": "loafers"}); rec.Code != http.StatusOK {
		t.Fatalf("shoe_style = %d: %s", rec.Code, rec.Body.String())
	}
	rec := h.do(t, "acct-1", http.MethodPut, base+"/options/face_detail", map[string]string{"value": "freckles"})
	if rec.Code != http.StatusUnprocessableEntity || errorCode(t, rec) != "toggle_not_capable" {
		t.Fatalf("face_detail on full = %d %s", rec.Code, rec.Body.String())
	}
	rec = h.do(t, "acct-1", http.MethodPut, base+"/assets/sleeve", pngUpload(t))
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_slot" {
		t.Fatalf("bad slot = %d %s", rec.Code, rec.Body.String())
	}
	rec = h.do(t, "acct-1", http.MethodPut, base+"/assets/model", pngUpload(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", rec.Code, rec.Body.String())
	}
	var st session.State
	decodeBody(t, rec, &st)
	if !strings.HasSuffix(st.Assets[domain.SlotModel], "/model.jpg") {
		t.Fatalf("assets = %+v", st.Assets)
	}
	rec = h.do(t, "acct-1", http.MethodPut, base+"/state", map[string]any{"pose_focus": "closeup", "product_name": "Silk Blouse"})
	if rec.Code != http.StatusOK {
		t.Fatalf("state = %d: %s", rec.Code, rec.Body.String())
	}
	st = session.State{}
	decodeBody(t, rec, &st)
	if st.PoseFocus != domain.PoseFocusCloseup || st.Style.ShoeStyle != "" {
		t.Fatalf("state after closeup = %+v", st)
	}

	rec = h.do(t, "acct-1", http.MethodPut, base+"/state", map[string]any{
		"style": map[string]any{"shoe_style": "sneakers", "socks_type": "white", "face_detail": "freckles"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("state style = %d: %s", rec.Code, rec.Body.String())
	}
	st = session.State{}
	decodeBody(t, rec, &st)
	if st.Style.ShoeStyle != "" || st.Style.SocksType != "" || st.Style.FaceDetail != "freckles" {
		t.Fatalf("style under closeup = %+v", st.Style)
	}
}

func TestPlanShotsDropsIncapableStyle(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "acct-1", http.MethodPost, "/v1/shots/plan", map[string]any{
		"family":     "standard",
		"pose_focus": "closeup",
		"style":      map[string]any{"shoe_style": "sneakers", "leg_style": "wide"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Style domain.StyleOptions `json:"style"`
		Shots []domain.ShotSpec   `json:"shots"`
	}
	decodeBody(t, rec, &got)
	if len(got.Shots) != 8 {
		t.Fatalf("shots = %d, want 8", len(got.Shots))
	}
	if got.Style.ShoeStyle != "" || got.Style.LegStyle != "" {
		t.Fatalf("plan style = %+v", got.Style)
	}
}

func TestAnalyzeFallsBackToStatic(t *testing.T) {
	h := newHarness(t)
	id := createSession(t, h, "acct-1", map[string]any{"workflow": "dress"})
	rec := h.do(t, "acct-1", http.MethodPost, "/v1/sessions/"+id+"/analyze", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Analysis domain.GarmentAnalysis `json:"analysis"`
	}
	decodeBody(t, rec, &got)
	if !got.Analysis.Fallback || got.Analysis.ProductName != "Dress" {
		t.Fatalf("analysis = %+v", got.Analysis)
	}
}

func readySession(t *testing.T, h *harness, account string) string {
	t.Helper()
	id := createSession(t, h, account, map[string]any{"family": "standard", "product_name": "Linen Shirt"})
	for _, slot := range []string{"model", "top_front"} {
		if rec := h.do(t, account, http.MethodPut, "/v1/sessions/"+id+"/assets/"+slot, pngUpload(t)); rec.Code != http.StatusOK {
			t.Fatalf("upload %s = %d: %s", slot, rec.Code, rec.Body.String())
		}
	}
	return id
}

func TestPreviewsThenBatch(t *testing.T) {
	h := newHarness(t)
	id := readySession(t, h, "acct-1")
	base := "/v1/sessions/" + id

	rec := h.do(t, "acct-1", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{true}})
	if rec.Code != http.StatusConflict {
		t.Fatalf("batch before previews = %d, want 409", rec.Code)
	}

	rec = h.do(t, "acct-1", http.MethodPost, base+"/previews", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("previews = %d: %s", rec.Code, rec.Body.String())
	}
	var prev struct {
		Previews []domain.ShotPreview `json:"previews"`
	}
	decodeBody(t, rec, &prev)
	if len(prev.Previews) != 8 {
		t.Fatalf("previews = %d, want 8", len(prev.Previews))
	}
	if prev.Previews[0].Prompt != "prompt for "+string(prev.Previews[0].Spec.View) {
		t.Fatalf("prompt = %q", prev.Previews[0].Prompt)
	}

	rec = h.do(t, "acct-1", http.MethodPost, base+"/batches", map[string]any{
		"selected":       []bool{true, false, true},
		"edited_prompts": []string{"", "", "edited third"},
		"seed":           42,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("batch = %d: %s", rec.Code, rec.Body.String())
	}
	var started struct {
		BatchID string `json:"batch_id"`
		Seed    int64  `json:"seed"`
		Total   int    `json:"total"`
		Cost    int    `json:"cost"`
	}
	decodeBody(t, rec, &started)
	if started.Seed != 42 || started.Total != 2 || started.Cost != 2 {
		t.Fatalf("started = %+v", started)
	}

	run, err := h.registry.Get(started.BatchID)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish")
	}

	rec = h.do(t, "acct-1", http.MethodGet, "/v1/batches/"+started.BatchID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get batch = %d", rec.Code)
	}
	var snap batch.Snapshot
	decodeBody(t, rec, &snap)
	if snap.State != batch.StateCompleted || len(snap.Results) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Results[1].Index != 2 || snap.Results[1].Prompt != "edited third" {
		t.Fatalf("second result = %+v", snap.Results[1])
	}
	if bal, _ := h.ledger.Balance(context.Background(), "acct-1"); bal != 8 {
		t.Fatalf("balance = %d, want 8", bal)
	}
	if rec := h.do(t, "acct-2", http.MethodGet, "/v1/batches/"+started.BatchID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign batch = %d, want 404", rec.Code)
	}
}

func TestPreviewsAnalyzeFirst(t *testing.T) {
	h := newHarness(t)
	id := readySession(t, h, "acct-1")
	rec := h.do(t, "acct-1", http.MethodPost, "/v1/sessions/"+id+"/previews", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("previews = %d: %s", rec.Code, rec.Body.String())
	}
	h.gen.mu.Lock()
	reqs := append([]generation.Request(nil), h.gen.previews...)
	h.gen.mu.Unlock()
	if len(reqs) != 8 {
		t.Fatalf("preview calls = %d, want 8", len(reqs))
	}
	for _, req := range reqs {
		if !strings.HasPrefix(req.Description, "Linen Shirt, photographed") {
			t.Fatalf("%s description = %q", req.View, req.Description)
		}
	}

	rec = h.do(t, "acct-1", http.MethodGet, "/v1/sessions/"+id, nil)
	var st session.State
	decodeBody(t, rec, &st)
	if st.Analysis == nil || !st.Analysis.Fallback {
		t.Fatalf("analysis = %+v", st.Analysis)
	}
}

func TestBatchPreflightErrors(t *testing.T) {
	h := newHarness(t)
	id := readySession(t, h, "broke")
	base := "/v1/sessions/" + id
	if rec := h.do(t, "broke", http.MethodPost, base+"/previews", nil); rec.Code != http.StatusOK {
		t.Fatalf("previews = %d", rec.Code)
	}
	rec := h.do(t, "broke", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{}})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "empty_selection" {
		t.Fatalf("empty selection = %d %s", rec.Code, rec.Body.String())
	}
	rec = h.do(t, "broke", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{true}})
	if rec.Code != http.StatusPaymentRequired || errorCode(t, rec) != "insufficient_credit" {
		t.Fatalf("no credit = %d %s", rec.Code, rec.Body.String())
	}
	for _, seed := range []int64{-5, 1 << 31} {
		rec = h.do(t, "broke", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{true}, "seed": seed})
		if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_seed" {
			t.Fatalf("seed %d = %d %s", seed, rec.Code, rec.Body.String())
		}
	}
	if got := strings.Count(h.logs.String(), "batch rejected before charge"); got != 4 {
		t.Fatalf("rejection log lines = %d, want 4:\n%s", got, h.logs.String())
	}
	if len(h.gen.commits) != 0 {
		t.Fatalf("commits = %d, want none", len(h.gen.commits))
	}
}

func TestBatchStreamAfterCompletion(t *testing.T) {
	h := newHarness(t)
	id := readySession(t, h, "acct-1")
	base := "/v1/sessions/" + id
	h.do(t, "acct-1", http.MethodPost, base+"/previews", nil)
	rec := h.do(t, "acct-1", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{true}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("batch = %d: %s", rec.Code, rec.Body.String())
	}
	var started struct {
		BatchID string `json:"batch_id"`
	}
	decodeBody(t, rec, &started)
	run, _ := h.registry.Get(started.BatchID)
	<-run.Done()

	srv := httptest.NewServer(h.handler)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/batches/" + started.BatchID + "/stream?access_token=" + token(t, "acct-1")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var types []batch.EventType
	for {
		var ev batch.Event
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		types = append(types, ev.Type)
		if ev.Type == batch.EventDone && (ev.Snapshot == nil || len(ev.Snapshot.Results) != 1) {
			t.Fatalf("done frame = %+v", ev.Snapshot)
		}
	}
	if len(types) != 2 || types[0] != batch.EventSnapshot || types[1] != batch.EventDone {
		t.Fatalf("frames = %v, want snapshot then done", types)
	}
}

func TestBatchArchive(t *testing.T) {
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "technical_back") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("image:" + r.URL.Path))
	}))
	defer images.Close()

	h := newHarness(t)
	h.gen.imageBase = images.URL + "/out/"
	id := readySession(t, h, "acct-1")
	base := "/v1/sessions/" + id
	h.do(t, "acct-1", http.MethodPost, base+"/previews", nil)
	rec := h.do(t, "acct-1", http.MethodPost, base+"/batches", map[string]any{"selected": []bool{true, true, true, true}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("batch = %d: %s", rec.Code, rec.Body.String())
	}
	var started struct {
		BatchID string `json:"batch_id"`
	}
	decodeBody(t, rec, &started)
	run, _ := h.registry.Get(started.BatchID)
	<-run.Done()

	if rec := h.do(t, "acct-2", http.MethodGet, "/v1/batches/"+started.BatchID+"/archive", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign archive = %d, want 404", rec.Code)
	}
	rec = h.do(t, "acct-1", http.MethodGet, "/v1/batches/"+started.BatchID+"/archive", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/zip" {
		t.Fatalf("archive = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	snap := run.Snapshot()
	want := 0
	for _, res := range snap.Results {
		if res.View != domain.ViewTechnicalBack {
			want++
		}
	}
	if len(zr.File) != want || want != 3 {
		t.Fatalf("entries = %d, want %d", len(zr.File), want)
	}
	if !strings.HasPrefix(zr.File[0].Name, "01-") || !strings.HasSuffix(zr.File[0].Name, ".png") {
		t.Fatalf("entry name = %q", zr.File[0].Name)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, "", http.MethodGet, "/v1/openapi.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi = %d", rec.Code)
	}
	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	decodeBody(t, rec, &doc)
	for _, p := range []string{"/v1/framing", "/v1/sessions/{id}/previews", "/v1/batches/{id}/stream", "/v1/batches/{id}/archive"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("openapi missing %s", p)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	cached := httptest.NewRecorder()
	h.handler.ServeHTTP(cached, req)
	if cached.Code != http.StatusNotModified {
		t.Fatalf("revalidation = %d, want 304", cached.Code)
	}
}
