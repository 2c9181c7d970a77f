package telemetry

// Span names opened by the persistence services and the editor save.
const (
	SpanPolygonList   = "polygons.list"
	SpanPolygonGet    = "polygons.get"
	SpanPolygonCreate = "polygons.create"
	SpanPolygonDelete = "polygons.delete"

	SpanObjectList     = "objects.list"
	SpanObjectCreate   = "objects.create"
	SpanObjectDelete   = "objects.delete"
	SpanObjectsEnclose = "objects.in_polygon"

	SpanEditorSave = "editor.save"
	SpanEditorLoad = "editor.load"
)
