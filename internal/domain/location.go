package domain

// District is a top level administrative area
type District struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Sector is an administrative area within a district
type Sector struct {
	ID         int64  `json:"id"`
	DistrictID int64  `json:"district_id"`
	Name       string `json:"name"`
}

// Option is one numbered entry of a rendered selection menu
type Option struct {
	ID   int64
	Name string
}

// DistrictOptions converts districts to menu options, preserving order
func DistrictOptions(districts []District) []Option {
	opts := make([]Option, 0, len(districts))
	for _, d := range districts {
		opts = append(opts, Option{ID: d.ID, Name: d.Name})
	}
	return opts
}

// SectorOptions converts sectors to menu options, preserving order
func SectorOptions(sectors []Sector) []Option {
	opts := make([]Option, 0, len(sectors))
	for _, s := range sectors {
		opts = append(opts, Option{ID: s.ID, Name: s.Name})
	}
	return opts
}

// DefaultDistricts is used when the reference tables are empty or unreachable
var DefaultDistricts = []District{
	{ID: 1, Name: "Kigali City"},
	{ID: 2, Name: "Northern Province"},
	{ID: 3, Name: "Southern Province"},
	{ID: 4, Name: "Eastern Province"},
	{ID: 5, Name: "Western Province"},
}

var defaultSectors = map[int64][]Sector{
	1: {
		{ID: 1, DistrictID: 1, Name: "Nyarugenge"},
		{ID: 2, DistrictID: 1, Name: "Gasabo"},
		{ID: 3, DistrictID: 1, Name: "Kicukiro"},
	},
	2: {
		{ID: 4, DistrictID: 2, Name: "Burera"},
		{ID: 5, DistrictID: 2, Name: "Gakenke"},
		{ID: 6, DistrictID: 2, Name: "Gicumbi"},
		{ID: 7, DistrictID: 2, Name: "Musanze"},
		{ID: 8, DistrictID: 2, Name: "Rulindo"},
	},
	3: {
		{ID: 9, DistrictID: 3, Name: "Gisagara"},
		{ID: 10, DistrictID: 3, Name: "Huye"},
		{ID: 11, DistrictID: 3, Name: "Kamonyi"},
		{ID: 12, DistrictID: 3, Name: "Muhanga"},
		{ID: 13, DistrictID: 3, Name: "Nyamagabe"},
		{ID: 14, DistrictID: 3, Name: "Nyanza"},
		{ID: 15, DistrictID: 3, Name: "Nyaruguru"},
		{ID: 16, DistrictID: 3, Name: "Ruhango"},
	},
	4: {
		{ID: 17, DistrictID: 4, Name: "Bugesera"},
		{ID: 18, DistrictID: 4, Name: "Gatsibo"},
		{ID: 19, DistrictID: 4, Name: "Kayonza"},
		{ID: 20, DistrictID: 4, Name: "Kirehe"},
		{ID: 21, DistrictID: 4, Name: "Ngoma"},
		{ID: 22, DistrictID: 4, Name: "Nyagatare"},
		{ID: 23, DistrictID: 4, Name: "Rwamagana"},
	},
	5: {
		{ID: 24, DistrictID: 5, Name: "Karongi"},
		{ID: 25, DistrictID: 5, Name: "Ngororero"},
		{ID: 26, DistrictID: 5, Name: "Nyabihu"},
		{ID: 27, DistrictID: 5, Name: "Nyamasheke"},
		{ID: 28, DistrictID: 5, Name: "Rubavu"},
		{ID: 29, DistrictID: 5, Name: "Rusizi"},
		{ID: 30, DistrictID: 5, Name: "Rutsiro"},
	},
}

// DefaultSectors returns the fallback sectors of a district.
// Unknown districts get the sectors of the first default district.
func DefaultSectors(districtID int64) []Sector {
	if sectors, ok := defaultSectors[districtID]; ok {
		return sectors
	}
	return defaultSectors[DefaultDistricts[0].ID]
}
