package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"buspredictor/internal/config"
	"buspredictor/internal/groups"
	"buspredictor/internal/gtfs"
)

// Wednesday June 18 2025, 10:00.
var testNow = time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

const testConfigDoc = `{
	"clave-angel": {
		"casa": {"coords": "43.4577,-3.8253", "stops": ["TUS_14165", "TUS"]},
		"vacio": {"coords": "43.46,-3.81", "stops": []},
		"sin_coords": {"stops": [14165]}
	}
}`

func writeGTFSDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"14165,Valdecilla,43.4577,-3.8253\n",
		"stop_times.txt": "trip_id,departure_time,stop_id\n" +
			"T1,10:15:00,14165\n" +
			"T2,10:45:00,14165\n",
		"trips.txt": "route_id,service_id,trip_id,trip_headsign\n" +
			"R1,WK,T1,Centro\n" +
			"R1,WK,T2,Centro\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WK,1,1,1,1,1,0,0,20250101,20261231\n",
		"calendar_dates.txt": "service_id,date,exception_type\n",
		"routes.txt": "route_id,route_short_name,route_long_name\n" +
			"R1,1,Centro - Hospital\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// newTestHandler wires a Handler against a fixture GTFS dir and a stub
// remote-configuration server, with the clock pinned to testNow.
func newTestHandler(t *testing.T, configDoc string) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if configDoc == "" {
			http.Error(w, "unavailable", http.StatusBadGateway)
			return
		}
		io.WriteString(w, configDoc)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{Location: time.UTC, RemoteConfigURL: srv.URL}
	store := gtfs.NewStore(writeGTFSDir(t), logger)
	h := New(store, groups.NewClient(srv.URL, logger), cfg, logger)
	h.now = func() time.Time { return testNow }
	return h
}

func get(t *testing.T, handlerFunc http.HandlerFunc, target string, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("GET", target, nil)
	for k, v := range pathValues {
		r.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	handlerFunc(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v\n%s", err, w.Body.String())
	}
	return body
}

func TestWriteJSON_EncodeFailureUsesInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	w := httptest.NewRecorder()
	h.writeJSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})

	if !strings.Contains(buf.String(), "encoding response") {
		t.Errorf("encode failure not logged through the handler logger: %q", buf.String())
	}
}

func TestConfig(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	w := get(t, h.Config, "/api/config?key=clave-angel", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if _, ok := body["casa"]; !ok {
		t.Errorf("pass-through config missing group: %v", body)
	}

	if w := get(t, h.Config, "/api/config", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing key: status = %d, want 400", w.Code)
	}
	if w := get(t, h.Config, "/api/config?key=nadie", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown key: status = %d, want 404", w.Code)
	}
}

func TestNearest(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	w := get(t, h.Nearest, "/api/nearest?key=clave-angel&lat=43.4577&lon=-3.8253", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["nearest_group"] != "casa" {
		t.Errorf("nearest_group = %v, want casa", body["nearest_group"])
	}
	if body["distance_km"].(float64) != 0 {
		t.Errorf("distance_km = %v, want 0", body["distance_km"])
	}
}

func TestNearest_ParamErrors(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing lat and lon", "/api/nearest?key=clave-angel", http.StatusBadRequest},
		{"missing lon", "/api/nearest?key=clave-angel&lat=43.0", http.StatusBadRequest},
		{"non-numeric lat", "/api/nearest?key=clave-angel&lat=abc&lon=2.0", http.StatusBadRequest},
		{"latitude out of range", "/api/nearest?key=clave-angel&lat=91.0&lon=2.0", http.StatusBadRequest},
		{"missing key", "/api/nearest?lat=43.0&lon=-3.8", http.StatusBadRequest},
		{"unknown key", "/api/nearest?key=nadie&lat=43.0&lon=-3.8", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h.Nearest, tt.target, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if _, ok := decodeBody(t, w)["error"]; !ok && tt.want != http.StatusOK {
				t.Error("failure body should carry an 'error' key")
			}
		})
	}
}

func TestNearest_NoValidGroups(t *testing.T) {
	h := newTestHandler(t, `{"k": {"solo": {"stops": [1]}}}`)

	w := get(t, h.Nearest, "/api/nearest?key=k&lat=43.0&lon=-3.8", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, ok := decodeBody(t, w)["message"]; !ok {
		t.Errorf("want a 'message' body, got %s", w.Body.String())
	}
}

func TestBusSchedules(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	w := get(t, h.BusSchedules, "/api/bus/casa?key=clave-angel", map[string]string{"group": "casa"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)

	res, ok := body["TUS_14165"].(map[string]any)
	if !ok {
		t.Fatalf("missing result for raw stop id: %v", body)
	}
	if res["nombre_parada"] != "Valdecilla" {
		t.Errorf("nombre_parada = %v", res["nombre_parada"])
	}
	if res["stop_id"] != "TUS_14165" {
		t.Errorf("stop_id = %v, want the raw identifier", res["stop_id"])
	}
	horarios := res["horarios_ordenados"].([]any)
	if len(horarios) != 1 {
		t.Fatalf("got %d entries, want 1", len(horarios))
	}
	entry := horarios[0].(map[string]any)
	if entry["proximo_bus"] != "10:15" || entry["siguiente_bus"] != "10:45" {
		t.Errorf("times = %v/%v, want 10:15/10:45", entry["proximo_bus"], entry["siguiente_bus"])
	}
	if entry["minutos_restantes"].(float64) != 15 {
		t.Errorf("minutos_restantes = %v, want 15", entry["minutos_restantes"])
	}
	if entry["destino"] != "Centro" || entry["linea"] != "1" {
		t.Errorf("entry = %v", entry)
	}

	// The undigitable "TUS" identifier fails alone, not the batch.
	if _, ok := body["TUS"].(map[string]any)["error"]; !ok {
		t.Errorf("per-stop error missing for TUS: %v", body["TUS"])
	}
}

func TestBusSchedules_Errors(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	tests := []struct {
		name   string
		target string
		group  string
		want   int
	}{
		{"missing key", "/api/bus/casa", "casa", http.StatusBadRequest},
		{"unknown key", "/api/bus/casa?key=nadie", "casa", http.StatusNotFound},
		{"unknown group", "/api/bus/otra?key=clave-angel", "otra", http.StatusNotFound},
		{"group without stops", "/api/bus/vacio?key=clave-angel", "vacio", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h.BusSchedules, tt.target, map[string]string{"group": tt.group})
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestBusSchedules_ConfigUnreachable(t *testing.T) {
	h := newTestHandler(t, "") // stub answers 502 to every fetch

	w := get(t, h.BusSchedules, "/api/bus/casa?key=clave-angel", map[string]string{"group": "casa"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestBusSchedules_NoServiceToday(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)
	// Sunday: the only calendar row runs Monday through Friday.
	h.now = func() time.Time { return time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC) }

	w := get(t, h.BusSchedules, "/api/bus/casa?key=clave-angel", map[string]string{"group": "casa"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 terminal message", w.Code)
	}
	if _, ok := decodeBody(t, w)["message"]; !ok {
		t.Errorf("want a 'message' body, got %s", w.Body.String())
	}
}

func TestBusSchedules_IdempotentWithinSameMinute(t *testing.T) {
	h := newTestHandler(t, testConfigDoc)

	first := get(t, h.BusSchedules, "/api/bus/casa?key=clave-angel", map[string]string{"group": "casa"})
	second := get(t, h.BusSchedules, "/api/bus/casa?key=clave-angel", map[string]string{"group": "casa"})
	if first.Body.String() != second.Body.String() {
		t.Error("two calls at the same instant should produce identical bodies")
	}
}
