package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/geotriangle/internal/adapters/http"
	"github.com/samirrijal/geotriangle/internal/adapters/memory"
	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/core/ports"
	"github.com/samirrijal/geotriangle/internal/core/usecases"
	"github.com/samirrijal/geotriangle/internal/pkg/geospatial"
)

// ---- Mock repositories ----

type mockPointRepo struct {
	getByIDFn func(ctx context.Context, id int) (*domain.Point, error)
	listFn    func(ctx context.Context) ([]domain.Point, error)
}

func (m *mockPointRepo) GetByID(ctx context.Context, id int) (*domain.Point, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrPointNotFound
}

func (m *mockPointRepo) List(ctx context.Context) ([]domain.Point, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func depsFor(repo ports.PointRepository) *handler.Dependencies {
	points := usecases.NewPointService(repo, nil, 0)
	return &handler.Dependencies{
		Points:     points,
		Perimeters: usecases.NewPerimeterService(points, nil, nil, 0),
	}
}

func makeDeps(t *testing.T) *handler.Dependencies {
	t.Helper()
	table, err := memory.NewPointTable(memory.DefaultPoints())
	if err != nil {
		t.Fatalf("point table: %v", err)
	}
	return depsFor(table)
}

func get(t *testing.T, app *fiber.App, url string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func sampleSides() float64 {
	return geospatial.Haversine(35.5, 51.1, 34.3, 52.3) +
		geospatial.Haversine(34.3, 52.3, 32.3, 53.2) +
		geospatial.Haversine(32.3, 53.2, 35.5, 51.1)
}

// ---- Point handler tests ----

func TestGetPoint_Found(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/points/4")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var p domain.Point
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	if p != (domain.Point{ID: 4, X: 49.9, Y: 35.7}) {
		t.Errorf("unexpected point %+v", p)
	}
}

func TestGetPoint_UnknownReturnsSentinel(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/points/99")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var raw map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"id", "x", "y"} {
		v, ok := raw[k]
		if !ok || v != 0 {
			t.Errorf("expected %s = 0 in sentinel, got %v (present=%v)", k, v, ok)
		}
	}
}

func TestGetPoint_BadID(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/points/abc")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	var apiErr handler.APIError
	json.Unmarshal(body, &apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestGetPoint_RepoError(t *testing.T) {
	app := setupApp(depsFor(&mockPointRepo{
		getByIDFn: func(ctx context.Context, id int) (*domain.Point, error) {
			return nil, errors.New("boom")
		},
	}))

	status, _ := get(t, app, "/v1/points/1")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
}

func TestListPoints_Pagination(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/points?offset=1&limit=2")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result struct {
		Data       []domain.Point     `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 4 {
		t.Errorf("expected total 4, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 || result.Data[0].ID != 2 || result.Data[1].ID != 3 {
		t.Errorf("unexpected page %+v", result.Data)
	}
}

func TestListPoints_LinkHeaders(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/points?offset=2&limit=1", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	link := resp.Header.Get("Link")
	for _, want := range []string{
		`</v1/points?offset=0&limit=1>; rel="first"`,
		`</v1/points?offset=1&limit=1>; rel="prev"`,
		`</v1/points?offset=3&limit=1>; rel="next"`,
		`</v1/points?offset=3&limit=1>; rel="last"`,
	} {
		if !strings.Contains(link, want) {
			t.Errorf("missing %s in Link header %q", want, link)
		}
	}
}

// ---- Perimeter handler tests ----

func TestTrianglePerimeter_SampleDataset(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/triangles/perimeter?id1=1&id2=2&id3=3")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res handler.PerimeterResponse
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	want := sampleSides()
	if math.Abs(res.PerimeterM-want) > 1e-6 {
		t.Errorf("expected %v, got %v", want, res.PerimeterM)
	}
}

func TestTrianglePerimeter_UnknownIDReturnsZero(t *testing.T) {
	app := setupApp(makeDeps(t))

	for _, q := range []string{"id1=1&id2=2&id3=5", "id1=0&id2=2&id3=3", "id1=7&id2=8&id3=9"} {
		status, body := get(t, app, "/v1/triangles/perimeter?"+q)
		if status != 200 {
			t.Fatalf("%s: expected 200, got %d", q, status)
		}
		if !strings.Contains(string(body), `"perimeter_m":0`) {
			t.Errorf("%s: expected zero sentinel, got %s", q, body)
		}
	}
}

func TestTrianglePerimeter_BadParams(t *testing.T) {
	app := setupApp(makeDeps(t))

	for _, q := range []string{"", "id1=1&id2=2", "id1=1&id2=x&id3=3", "id1=1.5&id2=2&id3=3"} {
		status, _ := get(t, app, "/v1/triangles/perimeter?"+q)
		if status != 400 {
			t.Errorf("%q: expected 400, got %d", q, status)
		}
	}
}

func TestCoordinatePerimeter_Success(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/perimeter?lat1=35.5&lon1=51.1&lat2=34.3&lon2=52.3&lat3=32.3&lon3=53.2")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res domain.PerimeterResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	want := sampleSides()
	if math.Abs(res.PerimeterM-want) > 1e-6 {
		t.Errorf("expected %v, got %v", want, res.PerimeterM)
	}
	if math.Abs(res.PerimeterKm-want/1000) > 1e-9 {
		t.Errorf("expected km %v, got %v", want/1000, res.PerimeterKm)
	}
	if sum := res.SidesM[0] + res.SidesM[1] + res.SidesM[2]; math.Abs(sum-res.PerimeterM) > 1e-6 {
		t.Errorf("sides %v do not add up to %v", res.SidesM, res.PerimeterM)
	}
}

func TestCoordinatePerimeter_InclusiveBounds(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/perimeter?lat1=90&lon1=180&lat2=-90&lon2=-180&lat3=0&lon3=0")
	if status != 200 {
		t.Fatalf("expected 200 for boundary values, got %d: %s", status, body)
	}
}

func TestCoordinatePerimeter_Rejects(t *testing.T) {
	app := setupApp(makeDeps(t))

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"lat above", "lat1=0&lon1=0&lat2=90.0001&lon2=0&lat3=0&lon3=1", "latitude for Point 2 must be between -90 and 90"},
		{"lon below", "lat1=0&lon1=0&lat2=0&lon2=1&lat3=0&lon3=-180.0001", "longitude for Point 3 must be between -180 and 180"},
		{"non numeric", "lat1=abc&lon1=0&lat2=0&lon2=1&lat3=0&lon3=2", "invalid input for Point 1: please enter numeric values"},
		{"missing", "lat1=0&lon1=0&lat2=0&lon2=1", "invalid input for Point 3: please enter numeric values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, "/v1/perimeter?"+tt.query)
			if status != 400 {
				t.Fatalf("expected 400, got %d", status)
			}
			var apiErr handler.APIError
			if err := json.Unmarshal(body, &apiErr); err != nil {
				t.Fatal(err)
			}
			if apiErr.Code != "invalid_coordinate" {
				t.Errorf("expected invalid_coordinate, got %s", apiErr.Code)
			}
			if apiErr.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, apiErr.Message)
			}
		})
	}
}

// ---- Health ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(t))
	status, _ := get(t, app, "/v1/health")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestReady_OptionalServicesNotConfigured(t *testing.T) {
	app := setupApp(makeDeps(t))

	status, body := get(t, app, "/v1/ready")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res struct {
		Checks map[string]string `json:"checks"`
	}
	json.Unmarshal(body, &res)
	if res.Checks["points"] != "ok" || res.Checks["cache"] != "not configured" {
		t.Errorf("unexpected checks %v", res.Checks)
	}
}

func TestReady_EmptyTable(t *testing.T) {
	app := setupApp(depsFor(&mockPointRepo{}))
	status, _ := get(t, app, "/v1/ready")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
}

// ---- Middleware ----

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/points/1", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("unexpected Cache-Control %q", cc)
	}

	req := httptest.NewRequest("GET", "/v1/points/1", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
}

func TestWebSocket_UnavailableWithoutNATS(t *testing.T) {
	app := setupApp(makeDeps(t))
	status, _ := get(t, app, "/ws")
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
}

// ---- GraphQL ----

func graphqlQuery(t *testing.T, app *fiber.App, query string) map[string]interface{} {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": query})
	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestGraphQL_PointAndSentinel(t *testing.T) {
	app := setupApp(makeDeps(t))

	out := graphqlQuery(t, app, `{ found: point(id: 2) { id x y } missing: point(id: 42) { id x y } }`)
	data, ok := out["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected response %v", out)
	}
	found := data["found"].(map[string]interface{})
	if found["id"] != float64(2) || found["x"] != 52.3 || found["y"] != 34.3 {
		t.Errorf("unexpected point %v", found)
	}
	missing := data["missing"].(map[string]interface{})
	if missing["id"] != float64(0) || missing["x"] != float64(0) || missing["y"] != float64(0) {
		t.Errorf("expected zero sentinel, got %v", missing)
	}
}

func TestGraphQL_TrianglePerimeter(t *testing.T) {
	app := setupApp(makeDeps(t))

	out := graphqlQuery(t, app, `{ ok: trianglePerimeter(id1: 1, id2: 2, id3: 3) miss: trianglePerimeter(id1: 1, id2: 2, id3: 10) }`)
	data := out["data"].(map[string]interface{})
	if got := data["ok"].(float64); math.Abs(got-sampleSides()) > 1e-6 {
		t.Errorf("expected %v, got %v", sampleSides(), got)
	}
	if got := data["miss"].(float64); got != 0 {
		t.Errorf("expected 0 sentinel, got %v", got)
	}
}

func TestGraphQL_PerimeterValidation(t *testing.T) {
	app := setupApp(makeDeps(t))

	out := graphqlQuery(t, app, `{ perimeter(lat1: 0, lon1: 0, lat2: 0, lon2: 90, lat3: 95, lon3: 0) { perimeter_m } }`)
	errs, ok := out["errors"].([]interface{})
	if !ok || len(errs) == 0 {
		t.Fatalf("expected errors, got %v", out)
	}
	msg := errs[0].(map[string]interface{})["message"].(string)
	if msg != "latitude for Point 3 must be between -90 and 90" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestGraphQL_Perimeter(t *testing.T) {
	app := setupApp(makeDeps(t))

	out := graphqlQuery(t, app, `{ perimeter(lat1: 0, lon1: 0, lat2: 0, lon2: 90, lat3: 0, lon3: 0) { perimeter_m sides_m vertices { lat lon } } }`)
	data := out["data"].(map[string]interface{})
	res := data["perimeter"].(map[string]interface{})

	quarter := math.Pi / 2 * geospatial.EarthRadiusMeters
	if got := res["perimeter_m"].(float64); math.Abs(got-2*quarter) > 1e-3 {
		t.Errorf("expected %v, got %v", 2*quarter, got)
	}
	if sides := res["sides_m"].([]interface{}); len(sides) != 3 {
		t.Errorf("expected 3 sides, got %v", sides)
	}
	if vs := res["vertices"].([]interface{}); len(vs) != 3 {
		t.Errorf("expected 3 vertices, got %v", vs)
	}
}
