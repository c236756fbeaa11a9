package gscene

// NewRow creates a container intended to arrange its children horizontally.
// Row layout is not implemented; children keep their own positions.
func NewRow(opts LayerOptions) *Layer {
	return newLayer(kindRow, opts)
}

// NewColumn creates a container intended to arrange its children vertically.
// Column layout is not implemented; children keep their own positions.
func NewColumn(opts LayerOptions) *Layer {
	return newLayer(kindColumn, opts)
}

// RowOf returns a new row holding the items. Nil items, and items whose
// layer is nil, are skipped.
func RowOf(items ...Addable) *Layer {
	return addNonNil(NewRow(LayerOptions{Name: "row"}), items)
}

// ColumnOf returns a new column holding the items, skipping nil ones as
// RowOf does.
func ColumnOf(items ...Addable) *Layer {
	return addNonNil(NewColumn(LayerOptions{Name: "column"}), items)
}

func addNonNil(box *Layer, items []Addable) *Layer {
	for _, item := range items {
		if item == nil || item.SceneLayer() == nil {
			continue
		}
		box.Add(item)
	}
	return box
}

// Layout arranges children. It is a no-op for every container kind.
// TODO: implement row/column arrangement with padding and margins.
func (l *Layer) Layout() {}
