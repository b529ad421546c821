package pdf

import (
	"github.com/yanqian/fitness-wizard/internal/domain/document"
)

type rgb struct{ r, g, b int }

var (
	purple      = rgb{0x7c, 0x3a, 0xed}
	purpleLight = rgb{0xe9, 0xd5, 0xff}
	purpleDark  = rgb{0x4c, 0x1d, 0x95}
	pink        = rgb{0xbe, 0x18, 0x5d}
	pinkLight   = rgb{0xfb, 0xcf, 0xe8}
	white       = rgb{0xff, 0xff, 0xff}
	slate900    = rgb{0x1e, 0x29, 0x3b}
	slate700    = rgb{0x33, 0x41, 0x55}
	slate600    = rgb{0x47, 0x55, 0x69}
	slate500    = rgb{0x64, 0x74, 0x8b}
	slate400    = rgb{0x94, 0xa3, 0xb8}
	slate200    = rgb{0xe2, 0xe8, 0xf0}
	slate100    = rgb{0xf1, 0xf5, 0xf9}
	slate50     = rgb{0xf8, 0xfa, 0xfc}
	sky50       = rgb{0xf0, 0xf9, 0xff}
	indigo50    = rgb{0xf0, 0xf4, 0xff}
	gray200     = rgb{0xe5, 0xe7, 0xeb}
)

// font is a text style: size in points, fpdf style letters and leading factor.
type font struct {
	size    float64
	style   string
	color   rgb
	leading float64
}

func (f font) lineHeight() float64 {
	return f.size * f.leading
}

// sheet holds the measurements of one layout.
type sheet struct {
	margin    float64
	bottom    float64
	gap       float64
	boxPad    float64
	columns   int
	barWidth  float64
	title     font
	subtitle  font
	section   font
	label     font
	value     font
	week      font
	dayHeader font
	subHeader font
	text      font
	bullet    font
	mealType  font
	mealItem  font
	progTitle font
	progText  font
	footer    font
	indent    float64
}

var sheets = map[document.Layout]sheet{
	document.LayoutDesktop: {
		margin:    30,
		bottom:    80,
		gap:       10,
		boxPad:    8,
		columns:   2,
		barWidth:  3,
		title:     font{size: 24, style: "B", color: white, leading: 1.2},
		subtitle:  font{size: 12, color: purpleLight, leading: 1.3},
		section:   font{size: 12, style: "B", color: purpleDark, leading: 1.4},
		label:     font{size: 8, color: slate500, leading: 1.3},
		value:     font{size: 10, style: "B", color: slate900, leading: 1.3},
		week:      font{size: 14, style: "B", color: pink, leading: 1.4},
		dayHeader: font{size: 11, style: "B", color: slate900, leading: 1.4},
		subHeader: font{size: 9, style: "B", color: slate500, leading: 1.4},
		text:      font{size: 10, color: slate700, leading: 1.4},
		bullet:    font{size: 8, color: slate700, leading: 1.5},
		mealType:  font{size: 9, style: "B", color: purple, leading: 1.4},
		mealItem:  font{size: 8, color: slate600, leading: 1.4},
		progTitle: font{size: 12, style: "B", color: purple, leading: 1.4},
		progText:  font{size: 10, color: slate900, leading: 1.5},
		footer:    font{size: 8, color: slate400, leading: 1.3},
		indent:    8,
	},
	document.LayoutMobile: {
		margin:    15,
		bottom:    60,
		gap:       6,
		boxPad:    6,
		columns:   1,
		barWidth:  3,
		title:     font{size: 20, style: "B", color: white, leading: 1.2},
		subtitle:  font{size: 10, color: purpleLight, leading: 1.3},
		section:   font{size: 11, style: "B", color: purpleDark, leading: 1.4},
		label:     font{size: 7, color: slate500, leading: 1.3},
		value:     font{size: 9, style: "B", color: slate900, leading: 1.3},
		week:      font{size: 12, style: "B", color: pink, leading: 1.4},
		dayHeader: font{size: 10, style: "B", color: slate900, leading: 1.4},
		subHeader: font{size: 8, style: "B", color: slate500, leading: 1.4},
		text:      font{size: 9, color: slate700, leading: 1.4},
		bullet:    font{size: 7, color: slate700, leading: 1.4},
		mealType:  font{size: 8, style: "B", color: purple, leading: 1.4},
		mealItem:  font{size: 7, color: slate600, leading: 1.3},
		progTitle: font{size: 11, style: "B", color: purple, leading: 1.4},
		progText:  font{size: 9, color: slate900, leading: 1.4},
		footer:    font{size: 7, color: slate400, leading: 1.3},
		indent:    6,
	},
}

// roadmapSheet styles the single page bonus roadmap.
var roadmapSheet = sheet{
	margin:    40,
	bottom:    60,
	gap:       12,
	boxPad:    12,
	columns:   1,
	barWidth:  4,
	title:     font{size: 28, style: "B", color: white, leading: 1.2},
	subtitle:  font{size: 12, color: purpleLight, leading: 1.4},
	section:   font{size: 14, style: "B", color: purple, leading: 1.4},
	value:     font{size: 16, style: "B", color: white, leading: 1.4},
	text:      font{size: 11, color: slate700, leading: 1.5},
	bullet:    font{size: 11, color: slate700, leading: 1.6},
	progTitle: font{size: 13, style: "B", color: purpleDark, leading: 1.4},
	progText:  font{size: 12, style: "I", color: slate900, leading: 1.5},
	label:     font{size: 10, color: slate500, leading: 1.4},
	mealType:  font{size: 10, style: "B", color: purple, leading: 1.4},
	footer:    font{size: 9, color: slate400, leading: 1.3},
	indent:    10,
}
