package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"kdsgroup.co.in/hms/models"
)

// HandpumpFeatures maps pumps with coordinates to point features. Pumps
// registered without a location are skipped.
func HandpumpFeatures(rows []models.Handpump) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, h := range rows {
		if !h.HasLocation() {
			continue
		}
		f := geojson.NewFeature(orb.Point{h.Longitude, h.Latitude})
		f.ID = h.HandpumpID
		f.Properties["handpumpCode"] = h.HandpumpCode
		f.Properties["village"] = h.VillageName
		f.Properties["gramPanchayat"] = h.GramPanchayatName
		f.Properties["block"] = h.BlockName
		f.Properties["district"] = h.DistrictName
		f.Properties["installationYear"] = h.InstallationYear
		f.Properties["isActive"] = h.IsActive
		fc.Append(f)
	}
	return fc
}
