package handlers

import (
	"net/http"
	"slices"

	"github.com/gofiber/fiber/v3"
	"github.com/invopop/jsonschema"
)

// ============================================================
// Schema Handlers
// ============================================================

type schemaEntry struct {
	title string
	body  any
}

var requestSchemas = map[string]schemaEntry{
	"hotel-update":       {"Update hotel", updateHotelRequest{}},
	"floor-create":       {"Create floor", createFloorRequest{}},
	"floor-update":       {"Update floor", updateFloorRequest{}},
	"room-create":        {"Create room", createRoomRequest{}},
	"room-update":        {"Update room details", updateRoomRequest{}},
	"room-coordinates":   {"Move or resize room", updateCoordinatesRequest{}},
	"placement-validate": {"Validate room placement", validatePlacementRequest{}},
}

// SchemaList отдаёт имена доступных JSON-схем тел запросов.
func SchemaList(c fiber.Ctx) error {
	names := make([]string, 0, len(requestSchemas))
	for name := range requestSchemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return c.JSON(fiber.Map{"schemas": names})
}

// Schema отдаёт JSON-схему тела запроса по имени.
func Schema(c fiber.Ctx) error {
	entry, ok := requestSchemas[c.Params("name")]
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "schema not found"})
	}

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(entry.body)
	schema.Title = entry.title

	return c.JSON(schema)
}
