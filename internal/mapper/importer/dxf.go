package importer

import (
	"fmt"
	"os"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// ============================================================
// DXF Import
// ============================================================

// box описывает контур в координатах чертежа (ось Y вверх).
type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) area() float64 { return (b.maxX - b.minX) * (b.maxY - b.minY) }

// ParseDXF берёт все LWPOLYLINE чертежа. Самый большой контур считается
// границей этажа и задаёт кадр, остальные становятся комнатами.
func ParseDXF(data []byte) *Result {
	res := &Result{Format: "dxf"}

	tmp, err := os.CreateTemp("", "rooms-*.dxf")
	if err != nil {
		res.errorf("Cannot buffer DXF file: %v", err)
		return res
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		res.errorf("Cannot buffer DXF file: %v", err)
		return res
	}
	tmp.Close()

	drawing, err := dxf.Open(tmp.Name())
	if err != nil {
		res.errorf("Cannot open DXF file: %v", err)
		return res
	}

	var boxes []box
	for _, ent := range drawing.Entities() {
		lw, ok := ent.(*entity.LwPolyline)
		if !ok {
			continue
		}
		if len(lw.Vertices) < 3 {
			res.warnf("Skipped LWPOLYLINE with fewer than 3 vertices")
			continue
		}
		boxes = append(boxes, polylineBox(lw.Vertices))
	}

	roomsFromBoxes(res, boxes)
	return res
}

func polylineBox(vertices [][]float64) box {
	b := box{minX: vertices[0][0], minY: vertices[0][1], maxX: vertices[0][0], maxY: vertices[0][1]}
	for _, v := range vertices[1:] {
		b.minX = min(b.minX, v[0])
		b.minY = min(b.minY, v[1])
		b.maxX = max(b.maxX, v[0])
		b.maxY = max(b.maxY, v[1])
	}
	return b
}

// roomsFromBoxes нормализует контуры комнат относительно границы этажа и
// переворачивает ось Y. Номера присваиваются сверху вниз, слева направо.
func roomsFromBoxes(res *Result, boxes []box) {
	if len(boxes) < 2 {
		res.errorf("DXF needs a floor outline and at least one room polyline")
		return
	}

	outline := 0
	for i, b := range boxes {
		if b.area() > boxes[outline].area() {
			outline = i
		}
	}
	fr := boxes[outline]
	w, h := fr.maxX-fr.minX, fr.maxY-fr.minY
	if w <= 0 || h <= 0 {
		res.errorf("Floor outline is degenerate")
		return
	}

	rooms := make([]box, 0, len(boxes)-1)
	for i, b := range boxes {
		if i != outline {
			rooms = append(rooms, b)
		}
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].maxY != rooms[j].maxY {
			return rooms[i].maxY > rooms[j].maxY
		}
		return rooms[i].minX < rooms[j].minX
	})

	res.warnf("Room numbers were assigned automatically (1..%d)", len(rooms))
	for i, b := range rooms {
		res.add(fmt.Sprintf("%d", i+1), frame{minX: fr.minX, minY: 0, width: w, height: h}.normalize(
			b.minX, fr.maxY-b.maxY, b.maxX-b.minX, b.maxY-b.minY))
	}
}
