package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"svw.info/gridgen/internal/infrastructure/storage"
	"svw.info/gridgen/internal/solver"
	"svw.info/gridgen/internal/usecase"
	"svw.info/gridgen/internal/validator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	uc := usecase.NewService(solver.NewBacktracking(), validator.New(), storage.NewFS(t.TempDir()))
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	var resp generateResp
	code := postJSON(t, srv.URL+"/api/generate",
		generateReq{BlockSize: 2, Density: 0.5, Seed: 42}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status %d: %s", code, resp.Error)
	}
	if resp.Instance == nil || resp.Instance.Grid.Size != 4 {
		t.Fatalf("unexpected instance: %+v", resp.Instance)
	}
	if resp.Instance.Grid.Filled() != 8 {
		t.Fatalf("filled = %d, want 8", resp.Instance.Grid.Filled())
	}
	if !strings.Contains(resp.DZN, "% Generated Sudoku 4x4") {
		t.Fatalf("dzn payload malformed:\n%s", resp.DZN)
	}
}

func TestGenerateEndpointRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	var resp generateResp
	code := postJSON(t, srv.URL+"/api/generate",
		generateReq{BlockSize: 1, Density: 0.5}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	code = postJSON(t, srv.URL+"/api/generate",
		generateReq{BlockSize: 2, Density: 1.5}, &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestSolveAndValidateEndpoints(t *testing.T) {
	srv := newTestServer(t)
	var gen generateResp
	if code := postJSON(t, srv.URL+"/api/generate",
		generateReq{BlockSize: 2, Density: 0.5, Seed: 7}, &gen); code != http.StatusOK {
		t.Fatalf("generate failed: %d %s", code, gen.Error)
	}

	var val validateResp
	if code := postJSON(t, srv.URL+"/api/validate", solveReq{DZN: gen.DZN}, &val); code != http.StatusOK {
		t.Fatalf("validate failed: %d %s", code, val.Error)
	}
	if !val.OK {
		t.Fatalf("generated instance reported invalid: %+v", val.Conflicts)
	}

	var sol solveResp
	if code := postJSON(t, srv.URL+"/api/solve", solveReq{DZN: gen.DZN}, &sol); code != http.StatusOK {
		t.Fatalf("solve failed: %d %s", code, sol.Error)
	}
	if sol.Grid == nil || !sol.Grid.Complete() {
		t.Fatal("solve did not return a full grid")
	}
}

func TestInstancesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/instances")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var list listResp
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGenerateStream(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"/api/generate/stream?blockSize=2&density=0.5&count=3&seed=100"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var events []progressEvent
	for {
		var ev progressEvent
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		events = append(events, ev)
		if ev.Done {
			break
		}
	}
	if len(events) != 4 { // 3 instances + done
		t.Fatalf("got %d events, want 4: %+v", len(events), events)
	}
	for i, ev := range events[:3] {
		if ev.Error != "" {
			t.Fatalf("event %d carries error %q", i, ev.Error)
		}
		if ev.Index != i+1 || ev.Filled != 8 {
			t.Fatalf("event %d malformed: %+v", i, ev)
		}
	}
	if !events[3].Done {
		t.Fatal("final event not marked done")
	}
}
