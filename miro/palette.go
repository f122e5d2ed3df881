package miro

// StickyNoteColors is the fixed fill palette accepted for sticky notes.
var StickyNoteColors = []string{
	"gray", "light_yellow", "yellow", "orange", "light_green", "green",
	"dark_green", "cyan", "light_pink", "pink", "violet", "red",
	"light_blue", "blue", "dark_blue", "black",
}

// BasicShapes and FlowChartShapes make up the shape catalog.
var BasicShapes = []string{
	"rectangle", "round_rectangle", "circle", "triangle", "rhombus",
	"parallelogram", "trapezoid", "pentagon", "hexagon", "octagon",
	"wedge_round_rectangle_callout", "star", "flow_chart_predefined_process",
	"cloud", "cross", "can", "right_arrow", "left_arrow", "left_right_arrow",
	"left_brace", "right_brace",
}

var FlowChartShapes = []string{
	"flow_chart_connector", "flow_chart_magnetic_disk", "flow_chart_input_output",
	"flow_chart_decision", "flow_chart_delay", "flow_chart_display",
	"flow_chart_document", "flow_chart_magnetic_drum", "flow_chart_internal_storage",
	"flow_chart_manual_input", "flow_chart_manual_operation", "flow_chart_merge",
	"flow_chart_multidocuments", "flow_chart_note_curly_left",
	"flow_chart_note_curly_right", "flow_chart_note_square",
	"flow_chart_offpage_connector", "flow_chart_or",
	"flow_chart_predefined_process_2", "flow_chart_preparation",
	"flow_chart_process", "flow_chart_online_storage",
	"flow_chart_summing_junction", "flow_chart_terminator",
}

const (
	DefaultStickyColor = "yellow"
	DefaultShapeKind   = "rectangle"
	DefaultShapeSize   = 200.0
)

var (
	stickyColorSet = toSet(StickyNoteColors)
	shapeKindSet   = toSet(append(append([]string{}, BasicShapes...), FlowChartShapes...))
)

// IsStickyColor reports whether c belongs to the sticky note palette.
func IsStickyColor(c string) bool { return stickyColorSet[c] }

// IsShapeKind reports whether k belongs to the shape catalog.
func IsShapeKind(k string) bool { return shapeKindSet[k] }

// ShapeKinds returns the full shape catalog, basic shapes first.
func ShapeKinds() []string {
	out := make([]string, 0, len(BasicShapes)+len(FlowChartShapes))
	out = append(out, BasicShapes...)
	return append(out, FlowChartShapes...)
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
