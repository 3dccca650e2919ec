package category

// PaletteEntry is one set of display attributes assigned to a category.
type PaletteEntry struct {
	Color      string `json:"color"`
	ChartColor string `json:"chartColor"`
	FillColor  string `json:"fillColor"`
	Icon       string `json:"icon"`
}

// palette is the fixed table of display attributes. Entries are assigned by
// creation order modulo the table length.
var palette = []PaletteEntry{
	{Color: "bg-amber-100 text-amber-700", ChartColor: "text-amber-400", FillColor: "#fbbf24", Icon: "🛒"},
	{Color: "bg-green-100 text-green-700", ChartColor: "text-green-400", FillColor: "#4ade80", Icon: "💸"},
	{Color: "bg-blue-100 text-blue-700", ChartColor: "text-blue-400", FillColor: "#60a5fa", Icon: "💳"},
	{Color: "bg-pink-100 text-pink-700", ChartColor: "text-pink-400", FillColor: "#f472b6", Icon: "🎉"},
	{Color: "bg-cyan-100 text-cyan-700", ChartColor: "text-cyan-500", FillColor: "#06b6d4", Icon: "📉"},
	{Color: "bg-orange-100 text-orange-700", ChartColor: "text-orange-400", FillColor: "#fb923c", Icon: "🏦"},
	{Color: "bg-violet-100 text-violet-700", ChartColor: "text-violet-400", FillColor: "#a78bfa", Icon: "🏛️"},
	{Color: "bg-gray-100 text-gray-700", ChartColor: "text-gray-400", FillColor: "#9ca3af", Icon: "⋯"},
}

// PaletteFor returns the palette entry for the n-th created category.
func PaletteFor(n int) PaletteEntry {
	return palette[n%len(palette)]
}

// PaletteSize returns the number of distinct palette entries.
func PaletteSize() int {
	return len(palette)
}
