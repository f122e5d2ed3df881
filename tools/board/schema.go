package board

import "github.com/KamdynS/go-miro-mcp/miro"

type props map[string]interface{}

func object(properties props, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}(properties),
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func num(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func numRange(desc string, min, max float64) map[string]interface{} {
	s := num(desc)
	s["minimum"] = min
	s["maximum"] = max
	return s
}

func enum(desc string, values []string) map[string]interface{} {
	s := str(desc)
	s["enum"] = values
	return s
}

func withDefault(s map[string]interface{}, v interface{}) map[string]interface{} {
	s["default"] = v
	return s
}

func looseObject(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "object", "description": desc, "additionalProperties": true}
}

func positionSchema() map[string]interface{} {
	s := object(props{
		"x":      withDefault(num("X coordinate; board center is 0"), 0),
		"y":      withDefault(num("Y coordinate; board center is 0"), 0),
		"origin": str("Origin of the coordinates, e.g. center"),
	})
	s["description"] = "Position relative to the board center, or to the parent frame's top-left corner"
	return s
}

func geometrySchema() map[string]interface{} {
	s := object(props{
		"width":    withDefault(num("Width in board units"), miro.DefaultShapeSize),
		"height":   withDefault(num("Height in board units"), miro.DefaultShapeSize),
		"rotation": withDefault(num("Rotation in degrees"), 0),
	})
	s["description"] = "Size and rotation"
	return s
}

var fontFamilies = []string{
	"arial", "abril_fatface", "bangers", "eb_garamond", "georgia", "graduate",
	"gravitas_one", "fredoka_one", "nixie_one", "open_sans", "permanent_marker",
	"pt_sans", "pt_sans_narrow", "pt_serif", "rammetto_one", "roboto",
	"roboto_condensed", "roboto_slab", "caveat", "times_new_roman", "titan_one",
	"lemon_tuesday", "roboto_mono", "noto_sans", "plex_sans", "plex_serif",
	"plex_mono", "spoof", "tiempos_text", "formular",
}

func shapeStyleSchema() map[string]interface{} {
	s := object(props{
		"color":             str("Text color as hex, e.g. #1a1a1a"),
		"fillColor":         str("Fill color as hex, e.g. #ffffff"),
		"fillOpacity":       numRange("Fill opacity", 0, 1),
		"fontFamily":        enum("Font family", fontFamilies),
		"fontSize":          numRange("Font size", 10, 288),
		"textAlign":         enum("Horizontal text alignment", []string{"left", "center", "right"}),
		"textAlignVertical": enum("Vertical text alignment", []string{"top", "middle", "bottom"}),
		"borderColor":       str("Border color as hex"),
		"borderWidth":       numRange("Border width", 1, 24),
		"borderOpacity":     numRange("Border opacity", 0, 1),
		"borderStyle":       enum("Border style", []string{"normal", "dotted", "dashed"}),
	})
	s["description"] = "Shape style"
	return s
}
