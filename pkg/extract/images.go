package extract

import "github.com/yaklabco/texviz/pkg/texast"

func (x *extractor) image(node *texast.Node) {
	params := node.Parameters()
	img := Image{Range: node.Range().EditorRange()}

	path, ok := slotText(params, 1)
	if !ok || path == "" {
		x.warn(node, "has no path")
	}
	img.Path = path

	if len(params) > 0 && params[0].Present() {
		if list := params[0].Node().Wrapped(); list != nil {
			img.Options = options(list)
		}
	}

	x.result.Images = append(x.result.Images, img)
}

func options(list *texast.Node) []Option {
	var out []Option
	for _, entry := range list.Elements() {
		switch entry.Kind() {
		case texast.NodeParameterAssignment:
			assignment := entry.Assignment()
			out = append(out, Option{Key: assignment.Key.Text(), Value: assignment.Value.Text()})
		case texast.NodeParameterValue:
			out = append(out, Option{Key: entry.Text()})
		default:
		}
	}
	return out
}
