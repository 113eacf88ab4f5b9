package cropscape

import "sort"

// LegendEntry is one CDL raster class: its pixel value, display name, map
// color, and whether NASS counts it as cultivated cropland.
type LegendEntry struct {
	Code       int    `json:"code"`
	Category   string `json:"category"`
	Color      string `json:"color"`
	Cultivated bool   `json:"cultivated"`
}

// legend is the NASS Cropland Data Layer classification table (codes, names,
// and rendering colors from the published CDL symbology). Non-crop land
// cover classes (water, forest, developed) carry Cultivated=false.
var legend = map[int]LegendEntry{
	1:   {1, "Corn", "#FFD300", true},
	2:   {2, "Cotton", "#FF2626", true},
	3:   {3, "Rice", "#00A8E2", true},
	4:   {4, "Sorghum", "#FF9E0A", true},
	5:   {5, "Soybeans", "#267000", true},
	6:   {6, "Sunflower", "#FFFF00", true},
	10:  {10, "Peanuts", "#70A500", true},
	11:  {11, "Tobacco", "#00AF49", true},
	12:  {12, "Sweet Corn", "#DDA50A", true},
	21:  {21, "Barley", "#E2007C", true},
	22:  {22, "Durum Wheat", "#896054", true},
	23:  {23, "Spring Wheat", "#D8B56B", true},
	24:  {24, "Winter Wheat", "#A57000", true},
	25:  {25, "Other Small Grains", "#D69EBC", true},
	26:  {26, "Dbl Crop WinWht/Soybeans", "#707000", true},
	27:  {27, "Rye", "#AC007C", true},
	28:  {28, "Oats", "#A05989", true},
	29:  {29, "Millet", "#700049", true},
	31:  {31, "Canola", "#D1FF00", true},
	32:  {32, "Flaxseed", "#7C99FF", true},
	33:  {33, "Safflower", "#D6D600", true},
	36:  {36, "Alfalfa", "#FFA5E2", true},
	37:  {37, "Other Hay/Non Alfalfa", "#A5F28C", false},
	41:  {41, "Sugarbeets", "#A800E2", true},
	42:  {42, "Dry Beans", "#A50000", true},
	43:  {43, "Potatoes", "#702600", true},
	44:  {44, "Other Crops", "#00AF49", true},
	45:  {45, "Sugarcane", "#B27CFF", true},
	46:  {46, "Sweet Potatoes", "#702600", true},
	49:  {49, "Onions", "#FF6666", true},
	53:  {53, "Peas", "#54FF00", true},
	54:  {54, "Tomatoes", "#F2A377", true},
	59:  {59, "Sod/Grass Seed", "#7CD3FF", false},
	61:  {61, "Fallow/Idle Cropland", "#BFBF77", true},
	66:  {66, "Cherries", "#FF00FF", true},
	67:  {67, "Peaches", "#FF8EAA", true},
	68:  {68, "Apples", "#BA004F", true},
	69:  {69, "Grapes", "#704489", true},
	72:  {72, "Citrus", "#FFFF7C", true},
	75:  {75, "Almonds", "#00A582", true},
	76:  {76, "Walnuts", "#E8D6AF", true},
	81:  {81, "Clouds/No Data", "#F2F2F2", false},
	82:  {82, "Developed", "#999999", false},
	83:  {83, "Water", "#4970A3", false},
	87:  {87, "Wetlands", "#7CAFAF", false},
	88:  {88, "Nonag/Undefined", "#E8FFBF", false},
	92:  {92, "Aquaculture", "#00FFFF", false},
	111: {111, "Open Water", "#4970A3", false},
	121: {121, "Developed/Open Space", "#999999", false},
	122: {122, "Developed/Low Intensity", "#999999", false},
	123: {123, "Developed/Med Intensity", "#999999", false},
	124: {124, "Developed/High Intensity", "#999999", false},
	131: {131, "Barren", "#CCBFA3", false},
	141: {141, "Deciduous Forest", "#93CC93", false},
	142: {142, "Evergreen Forest", "#93CC93", false},
	143: {143, "Mixed Forest", "#93CC93", false},
	152: {152, "Shrubland", "#C6D69E", false},
	176: {176, "Grassland/Pasture", "#E8FFBF", false},
	190: {190, "Woody Wetlands", "#7CAFAF", false},
	195: {195, "Herbaceous Wetlands", "#7CAFAF", false},
	204: {204, "Pistachios", "#00FF8C", true},
	205: {205, "Triticale", "#D69EBC", true},
	225: {225, "Dbl Crop WinWht/Corn", "#FFD300", true},
	236: {236, "Dbl Crop WinWht/Sorghum", "#A57000", true},
	237: {237, "Dbl Crop Barley/Corn", "#FFD300", true},
}

// LookupCode returns the legend entry for a CDL pixel value.
func LookupCode(code int) (LegendEntry, bool) {
	e, ok := legend[code]
	return e, ok
}

// Legend returns the full classification table ordered by code.
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(legend))
	for _, e := range legend {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}
