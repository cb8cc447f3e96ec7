package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hotel-mapper/internal/common/config"
	"hotel-mapper/internal/common/middleware"
	"hotel-mapper/internal/mapper/repository"
	"hotel-mapper/internal/mapper/service"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpload = config.UploadConfig{
	MaxFileSize:       1 << 20,
	AllowedTypes:      []string{"image/png", "image/jpeg"},
	MinImageWidth:     100,
	MinImageHeight:    80,
	MaxImageDimension: 2000,
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithDB(t)
	return app
}

func newTestAppWithDB(t *testing.T) (*fiber.App, *sql.DB) {
	t.Helper()
	dir := t.TempDir()

	db, err := repository.OpenSQLite(filepath.Join(dir, "mapper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	images := service.NewImageInspector(testUpload)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	Register(app, Services{
		Repo:      repo,
		Hotels:    service.NewHotelService(repo, service.NewFileStorage(filepath.Join(dir, "uploads")), images),
		Floors:    service.NewFloorService(repo),
		Rooms:     service.NewRoomService(repo, config.MappingConfig{OverlapTolerance: 0.05, NeighborDistance: 0.1}),
		Images:    images,
		PublicURL: "https://maps.example.com",
	})
	return app, db
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func send(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	return resp
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp := send(t, app, req)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func doMultipart(t *testing.T, app *fiber.App, method, path string, fields map[string]string, fileField, filename string, file []byte) (*http.Response, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp := send(t, app, req)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

// seedFloor создаёт отель с планом 1000x800 и один этаж.
func seedFloor(t *testing.T, app *fiber.App) (hotelID, floorID string) {
	t.Helper()
	resp, hotel := doMultipart(t, app, http.MethodPost, "/hotels",
		map[string]string{"name": "Grand Hotel", "description": "Seaside"}, "image", "plan.png", pngBytes(t, 1000, 800))
	require.Equal(t, http.StatusCreated, resp.StatusCode, hotel)

	resp, floor := doJSON(t, app, http.MethodPost, "/hotels/"+hotel["id"].(string)+"/floors",
		map[string]any{"floorNumber": 1, "name": "Ground"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, floor)

	return hotel["id"].(string), floor["id"].(string)
}

func createRoom(t *testing.T, app *fiber.App, floorID, number string, x, y, w, h float64) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/floors/"+floorID+"/rooms", map[string]any{
		"roomNumber":  number,
		"coordinates": map[string]float64{"x": x, "y": y, "width": w, "height": h},
	})
}

// ─── Health & Schemas ──────────────────────────────────────

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestSchemas(t *testing.T) {
	app := newTestApp(t)

	_, body := doJSON(t, app, http.MethodGet, "/schema", nil)
	assert.Contains(t, body["schemas"], "room-create")

	resp, body := doJSON(t, app, http.MethodGet, "/schema/room-create", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Create room", body["title"])
	assert.ElementsMatch(t, []any{"roomNumber", "coordinates"}, body["required"])

	resp, _ = doJSON(t, app, http.MethodGet, "/schema/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Hotels ────────────────────────────────────────────────

func TestValidateImage(t *testing.T) {
	app := newTestApp(t)

	resp, body := doMultipart(t, app, http.MethodPost, "/uploads/validate-image", nil, "image", "plan.png", pngBytes(t, 300, 200))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	info := body["image"].(map[string]any)
	assert.Equal(t, float64(300), info["width"])
	assert.Equal(t, "image/png", info["contentType"])

	resp, body = doMultipart(t, app, http.MethodPost, "/uploads/validate-image", nil, "image", "tiny.png", pngBytes(t, 20, 20))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "Image too small")
}

func TestHotelEndpoints(t *testing.T) {
	app := newTestApp(t)
	hotelID, floorID := seedFloor(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/hotels?limit=500", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(50), pagination["limit"])
	assert.Equal(t, float64(1), pagination["total"])

	resp, body = doJSON(t, app, http.MethodGet, "/hotels/"+hotelID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1000), body["imageWidth"])
	floors := body["floors"].([]any)
	require.Len(t, floors, 1)
	assert.Equal(t, floorID, floors[0].(map[string]any)["id"])

	resp, body = doJSON(t, app, http.MethodPut, "/hotels/"+hotelID, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "status must be one of")

	resp, body = doJSON(t, app, http.MethodPut, "/hotels/"+hotelID, map[string]any{"name": "Grand Palace"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["slug"], "grand-palace-")

	resp, body = doMultipart(t, app, http.MethodPatch, "/hotels/"+hotelID+"/image", nil, "image", "new.png", pngBytes(t, 1200, 900))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(1200), body["imageWidth"])

	resp = send(t, app, httptest.NewRequest(http.MethodGet, "/hotels/"+hotelID+"/image", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, body = doJSON(t, app, http.MethodDelete, "/hotels/"+hotelID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/hotels/"+hotelID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Hotel not found", body["error"])
}

func TestCreateHotel_RequiresImage(t *testing.T) {
	app := newTestApp(t)

	resp, body := doMultipart(t, app, http.MethodPost, "/hotels", map[string]string{"name": "No Plan"}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Floor plan image is required", body["error"])
}

// ─── Floors ────────────────────────────────────────────────

func TestFloorEndpoints(t *testing.T) {
	app := newTestApp(t)
	hotelID, floorID := seedFloor(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/hotels/"+hotelID+"/floors", map[string]any{"floorNumber": 1, "name": "Again"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, body = doJSON(t, app, http.MethodPost, "/hotels/"+hotelID+"/floors", map[string]any{"name": "No number"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "floorNumber is required", body["error"])

	resp, body = doJSON(t, app, http.MethodPut, "/floors/"+floorID, map[string]any{"name": "Lobby", "displayOrder": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lobby", body["name"])
	assert.Equal(t, float64(5), body["displayOrder"])

	resp, _ = createRoom(t, app, floorID, "101", 0.1, 0.1, 0.2, 0.2)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodDelete, "/floors/"+floorID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Cannot delete floor with 1 rooms. Delete rooms first.", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/hotels/"+hotelID+"/floors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["floors"], 1)
}

// ─── Rooms ─────────────────────────────────────────────────

func TestCreateRoom_ErrorMapping(t *testing.T) {
	app := newTestApp(t)
	_, floorID := seedFloor(t, app)

	resp, body := createRoom(t, app, floorID, "101", 0.1, 0.1, 0.2, 0.2)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	coords := body["coordinates"].(map[string]any)
	assert.InDelta(t, 0.3, coords["xEnd"], 1e-9)
	assert.InDelta(t, 0.2, coords["centerX"], 1e-9)
	assert.InDelta(t, 0.04, coords["area"], 1e-9)

	resp, body = createRoom(t, app, floorID, "102", 0.15, 0.15, 0.2, 0.2)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "OVERLAP_ERROR", body["code"])
	assert.Equal(t, "Room overlaps with existing rooms: 101", body["error"])
	overlapping := body["overlappingRooms"].([]any)
	require.Len(t, overlapping, 1)
	assert.Equal(t, "101", overlapping[0].(map[string]any)["roomNumber"])

	resp, body = createRoom(t, app, floorID, "103", 0.9, 1.2, 0.3, 0.001)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.GreaterOrEqual(t, len(body["details"].([]any)), 3)

	resp, body = createRoom(t, app, floorID, "101", 0.6, 0.6, 0.2, 0.2)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "already exists")

	resp, body = doJSON(t, app, http.MethodPost, "/floors/"+floorID+"/rooms", map[string]any{"roomNumber": "104"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "coordinates are required", body["error"])

	resp, _ = createRoom(t, app, "missing-floor", "105", 0.6, 0.6, 0.2, 0.2)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/floors/"+floorID+"/rooms", strings.NewReader("{broken"))
	resp = send(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoomEndpoints(t *testing.T) {
	app := newTestApp(t)
	hotelID, floorID := seedFloor(t, app)

	_, a := createRoom(t, app, floorID, "101", 0.1, 0.1, 0.1, 0.1)
	_, b := createRoom(t, app, floorID, "102", 0.2, 0.1, 0.1, 0.1)
	_, far := createRoom(t, app, floorID, "110", 0.8, 0.8, 0.1, 0.1)
	roomID := a["id"].(string)

	resp, body := doJSON(t, app, http.MethodGet, "/rooms/"+roomID+"/neighbors?maxDistance=0.15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	neighbors := body["neighbors"].([]any)
	require.Len(t, neighbors, 1)
	assert.Equal(t, b["id"], neighbors[0].(map[string]any)["id"])

	resp, body = doJSON(t, app, http.MethodGet, "/rooms/"+roomID+"/neighbors?maxDistance=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["neighbors"], 2)

	resp, _ = doJSON(t, app, http.MethodGet, "/rooms/"+roomID+"/neighbors?maxDistance=far", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/floors/"+floorID+"/rooms/at?x=0.85&y=0.85", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, far["id"], body["id"])

	resp, _ = doJSON(t, app, http.MethodGet, "/floors/"+floorID+"/rooms/at?x=0.5&y=0.5", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/floors/"+floorID+"/rooms/at?x=0.5", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPatch, "/rooms/"+roomID+"/coordinates", map[string]any{
		"coordinates":  map[string]float64{"x": 0.15, "y": 0.1, "width": 0.1, "height": 0.1},
		"changeReason": "survey",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, "moved onto room 102")
	assert.Equal(t, "OVERLAP_ERROR", body["code"])

	resp, body = doJSON(t, app, http.MethodPatch, "/rooms/"+roomID+"/coordinates", map[string]any{
		"coordinates":  map[string]float64{"x": 0.05, "y": 0.1, "width": 0.1, "height": 0.1},
		"changeReason": "survey",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = doJSON(t, app, http.MethodGet, "/rooms/"+roomID+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := body["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "survey", history[0].(map[string]any)["changeReason"])

	resp, body = doJSON(t, app, http.MethodPut, "/rooms/"+roomID, map[string]any{"status": "occupied", "capacity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "occupied", body["status"])
	assert.Equal(t, float64(3), body["capacity"])

	resp, body = doJSON(t, app, http.MethodGet, "/hotels/"+hotelID+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "33.33%", body["occupancyRate"])
	assert.Equal(t, float64(3), body["totalRooms"])

	resp, body = doJSON(t, app, http.MethodPut, "/rooms/"+roomID, map[string]any{"roomNumber": "102"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, _ = doJSON(t, app, http.MethodDelete, "/rooms/"+roomID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodGet, "/rooms/"+roomID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Room not found", body["error"])
}

func TestValidatePlacement(t *testing.T) {
	app := newTestApp(t)
	_, floorID := seedFloor(t, app)
	createRoom(t, app, floorID, "101", 0.1, 0.1, 0.2, 0.2)

	resp, body := doJSON(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/validate", map[string]any{
		"pixelCoordinates": map[string]float64{"x": 500, "y": 400, "width": 100, "height": 80},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["valid"])
	coords := body["coordinates"].(map[string]any)
	assert.InDelta(t, 0.5, coords["x"], 1e-9)
	assert.InDelta(t, 0.1, coords["height"], 1e-9)

	resp, body = doJSON(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/validate", map[string]any{
		"coordinates": map[string]float64{"x": 0.1, "y": 0.1, "width": 0.2, "height": 0.2},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, true, body["hasOverlap"])

	resp, _ = doJSON(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/validate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportRooms(t *testing.T) {
	app := newTestApp(t)
	_, floorID := seedFloor(t, app)
	csv := []byte("room,x,y,width,height\n201,0.1,0.1,0.2,0.2\n202,600,400,100,80\n203,0.15,0.15,0.2,0.2\n")

	resp, body := doMultipart(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/import?dryRun=true", nil, "file", "rooms.csv", csv)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	report := body["report"].(map[string]any)
	assert.Equal(t, true, report["dryRun"])
	assert.Equal(t, float64(2), report["accepted"])
	assert.Equal(t, float64(1), report["rejected"])

	_, list := doJSON(t, app, http.MethodGet, "/floors/"+floorID+"/rooms", nil)
	assert.Empty(t, list["rooms"])

	resp, body = doMultipart(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/import", nil, "file", "rooms.csv", csv)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	_, list = doJSON(t, app, http.MethodGet, "/floors/"+floorID+"/rooms", nil)
	assert.Len(t, list["rooms"], 2)

	resp, body = doMultipart(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/import", nil, "file", "rooms.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["errors"])
}

func TestImportRooms_PlanLookupFailure(t *testing.T) {
	app, db := newTestAppWithDB(t)
	hotelID, floorID := seedFloor(t, app)

	_, err := db.Exec(`UPDATE hotels SET image_width = 'broken' WHERE id = ?`, hotelID)
	require.NoError(t, err)

	csv := []byte("room,x,y,width,height\n201,0.1,0.1,0.2,0.2\n")
	resp, body := doMultipart(t, app, http.MethodPost, "/floors/"+floorID+"/rooms/import?dryRun=true", nil, "file", "rooms.csv", csv)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, body)
	assert.Nil(t, body["report"])
}

// ─── Exports ───────────────────────────────────────────────

func TestExports(t *testing.T) {
	app := newTestApp(t)
	hotelID, floorID := seedFloor(t, app)

	resp := send(t, app, httptest.NewRequest(http.MethodGet, "/floors/"+floorID+"/labels.pdf", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no rooms yet")

	createRoom(t, app, floorID, "101", 0.1, 0.1, 0.2, 0.2)

	cases := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/floors/" + floorID + "/plan.pdf", "application/pdf", "%PDF"},
		{"/floors/" + floorID + "/labels.pdf", "application/pdf", "%PDF"},
		{"/floors/" + floorID + "/rooms.svg", "image/svg+xml", "<?xml"},
		{"/hotels/" + hotelID + "/rooms.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := send(t, app, httptest.NewRequest(http.MethodGet, tc.path, nil))
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tc.prefix)))
		})
	}

	resp = send(t, app, httptest.NewRequest(http.MethodGet, "/floors/missing/plan.pdf", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
