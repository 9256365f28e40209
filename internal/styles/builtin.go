package styles

import "github.com/fyrsmithlabs/docforge/internal/document"

// builtinPresets ship with the binary. Word presets use the word
// property vocabulary, print uses the pdf one; properties a renderer
// does not recognize are ignored, so applying a preset to the other
// kind degrades to the defaults instead of failing.
var builtinPresets = map[string]document.Preferences{
	"report": {
		"name":            "Georgia",
		"size":            12,
		"line_spacing":    1.5,
		"alignment":       "justify",
		"title_alignment": "center",
	},
	"letter": {
		"name":         "Times New Roman",
		"size":         12,
		"line_spacing": 1.15,
	},
	"memo": {
		"name":            "Arial",
		"size":            11,
		"title_alignment": "left",
	},
	"print": {
		"fontName":          "Times",
		"fontSize":          11,
		"alignment":         "justify",
		"title_fontSize":    16,
		"page_leftMargin":   90,
		"page_rightMargin":  90,
		"page_topMargin":    72,
		"page_bottomMargin": 54,
	},
}
