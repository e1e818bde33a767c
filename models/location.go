package models

// Level names one tier of the District → Block → Gram Panchayat → Village
// hierarchy.
type Level int

const (
	LevelDistrict Level = iota
	LevelBlock
	LevelGramPanchayat
	LevelVillage
)

func (l Level) String() string {
	switch l {
	case LevelDistrict:
		return "district"
	case LevelBlock:
		return "block"
	case LevelGramPanchayat:
		return "gramPanchayat"
	case LevelVillage:
		return "village"
	}
	return "unknown"
}

// Location is one option of a cascading selector. The backend uses a
// different name key per level, all of which decode into Name.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// locationWire accepts every shape the master endpoints return.
type locationWire struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	DistrictID        int    `json:"districtId"`
	DistrictName      string `json:"districtName"`
	BlockID           int    `json:"blockId"`
	BlockName         string `json:"blockName"`
	GramPanchayatID   int    `json:"gramPanchayatId"`
	GramPanchayatName string `json:"gramPanchayatName"`
	VillageID         int    `json:"villageId"`
	VillageName       string `json:"villageName"`
}

// Locations normalises a master list for the given level.
func (l LocationList) Locations(level Level) []Location {
	out := make([]Location, 0, len(l))
	for _, w := range l {
		loc := Location{ID: w.ID, Name: w.Name}
		switch level {
		case LevelDistrict:
			loc = pick(loc, w.DistrictID, w.DistrictName)
		case LevelBlock:
			loc = pick(loc, w.BlockID, w.BlockName)
		case LevelGramPanchayat:
			loc = pick(loc, w.GramPanchayatID, w.GramPanchayatName)
		case LevelVillage:
			loc = pick(loc, w.VillageID, w.VillageName)
		}
		out = append(out, loc)
	}
	return out
}

func pick(loc Location, id int, name string) Location {
	if loc.ID == 0 {
		loc.ID = id
	}
	if loc.Name == "" {
		loc.Name = name
	}
	return loc
}

// LocationList is the decoding target for master list responses.
type LocationList []locationWire
