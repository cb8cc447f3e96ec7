package export

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"hotel-mapper/internal/geometry"
	"hotel-mapper/internal/mapper/importer"
	"hotel-mapper/internal/mapper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestPlan(t *testing.T) FloorPlan {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 200, 100))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	price := 99.5
	return FloorPlan{
		Hotel: models.Hotel{ID: "h1", Name: "Grand", ImagePath: path, ImageType: "image/png", ImageWidth: 200, ImageHeight: 100},
		Floor: models.Floor{ID: "f1", HotelID: "h1", FloorNumber: 2, Name: "Second"},
		Rooms: []models.Room{
			{ID: "r1", RoomNumber: "201", Status: "available", RoomType: "standard", BedType: "double", Capacity: 2,
				Currency: "USD", BasePrice: &price,
				Coordinates: geometry.NormalizedRect{X: 0.1, Y: 0.2, Width: 0.25, Height: 0.5}},
			{ID: "r2", RoomNumber: "A&B", Status: "occupied", RoomType: "suite", BedType: "king", Capacity: 4,
				Currency:    "EUR",
				Coordinates: geometry.NormalizedRect{X: 0.5, Y: 0.2, Width: 0.3, Height: 0.6}},
		},
	}
}

func TestFloorPlanPDF(t *testing.T) {
	plan := buildTestPlan(t)

	var out bytes.Buffer
	require.NoError(t, FloorPlanPDF(&out, plan))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))
}

func TestFloorPlanPDF_MissingImageStillRenders(t *testing.T) {
	plan := buildTestPlan(t)
	plan.Hotel.ImagePath = filepath.Join(t.TempDir(), "gone.png")

	var out bytes.Buffer
	require.NoError(t, FloorPlanPDF(&out, plan))
	assert.NotZero(t, out.Len())
}

func TestFloorPlanPDF_RejectsUnknownImageSize(t *testing.T) {
	plan := buildTestPlan(t)
	plan.Hotel.ImageWidth = 0

	var out bytes.Buffer
	assert.Error(t, FloorPlanPDF(&out, plan))
}

func TestRoomLabelsPDF(t *testing.T) {
	plan := buildTestPlan(t)

	labels := CollectLabels(plan, "https://maps.example.com/")
	require.Len(t, labels, 2)
	assert.Equal(t, "https://maps.example.com/api/v1/rooms/r1", labels[0].URL)
	assert.Equal(t, "Second", labels[0].Floor)

	var out bytes.Buffer
	require.NoError(t, RoomLabelsPDF(&out, plan, ""))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))

	plan.Rooms = nil
	assert.Error(t, RoomLabelsPDF(&out, plan, ""))
}

func TestRoomScheduleXLSX(t *testing.T) {
	plan := buildTestPlan(t)

	buf, err := RoomScheduleXLSX(plan.Hotel, []FloorRooms{{Floor: plan.Floor, Rooms: plan.Rooms}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(scheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Room", rows[0][2])
	assert.Equal(t, "201", rows[1][2])
	assert.Equal(t, "20", rows[1][11], "pixel x")
	assert.Equal(t, "99.5", rows[1][15])
}

func TestRoomScheduleXLSX_RoundTripsThroughImport(t *testing.T) {
	plan := buildTestPlan(t)

	buf, err := RoomScheduleXLSX(plan.Hotel, []FloorRooms{{Floor: plan.Floor, Rooms: plan.Rooms}})
	require.NoError(t, err)

	res := importer.ParseXLSX(buf.Bytes(), plan.Hotel.ImageSize())
	require.Empty(t, res.Errors)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "201", res.Candidates[0].RoomNumber)
	assert.InDelta(t, 0.25, res.Candidates[0].Rect.Width, 1e-9)
}

func TestRoomsSVG_RoundTripsThroughImport(t *testing.T) {
	plan := buildTestPlan(t)

	svg, err := RoomsSVG(plan)
	require.NoError(t, err)
	assert.Contains(t, svg, `id="Room_A&amp;B"`)
	assert.Contains(t, svg, `x="20" y="20" width="50" height="50"`)

	res := importer.ParseSVG([]byte(svg))
	require.Empty(t, res.Errors)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "A&B", res.Candidates[1].RoomNumber)
	assert.InDelta(t, 0.5, res.Candidates[1].Rect.X, 1e-9)
	assert.InDelta(t, 0.6, res.Candidates[1].Rect.Height, 1e-9)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "12", formatFloat(12))
	assert.Equal(t, "12.35", formatFloat(12.345))
}
