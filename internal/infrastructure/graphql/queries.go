package graphql

import (
	"fmt"
	"strings"

	"github.com/mobility-map/internal/domain"
)

const translated = `translation { language value }`

var (
	systemFields = `system { id name { ` + translated + ` } operator { id name { ` + translated + ` } } }`

	vehicleFieldsBase = `id lat lon`
	vehicleFieldsFull = `id lat lon isReserved isDisabled currentRangeMeters
      vehicleType { id formFactor propulsionType maxRangeMeters name { ` + translated + ` } }
      pricingPlan { id url name { ` + translated + ` } currency price isTaxable description { ` + translated + ` } }
      rentalUris { android ios web }
      ` + systemFields

	stationFieldsBase = `id lat lon`
	stationFieldsFull = `id lat lon address capacity numBikesAvailable numDocksAvailable
      isInstalled isRenting isReturning isVirtualStation lastReported
      name { ` + translated + ` }
      vehicleTypesAvailable { count vehicleType { id formFactor propulsionType } }
      ` + systemFields
)

const operatorsQuery = `query Operators { operators { id name { ` + translated + ` } } }`

const codespacesQuery = `query Codespaces { codespaces }`

const geofencingZonesQuery = `query GeofencingZones($systemIds: [ID]) {
  geofencingZones(systemIds: $systemIds) {
    systemId
    geojson {
      type
      features {
        type
        properties {
          name start end
          rules { vehicleTypeIds rideStartAllowed rideEndAllowed rideThroughAllowed maximumSpeedKph stationParking }
        }
        geometry { type coordinates }
      }
    }
  }
}`

const vehiclesSubscription = `subscription Vehicles($minimumLatitude: Float!, $maximumLatitude: Float!, $minimumLongitude: Float!, $maximumLongitude: Float!) {
  vehicles(minimumLatitude: $minimumLatitude, maximumLatitude: $maximumLatitude, minimumLongitude: $minimumLongitude, maximumLongitude: $maximumLongitude) {
    vehicleId
    updateType
    vehicle { ` + "%s" + ` }
  }
}`

const stationsSubscription = `subscription Stations($minimumLatitude: Float!, $maximumLatitude: Float!, $minimumLongitude: Float!, $maximumLongitude: Float!) {
  stations(minimumLatitude: $minimumLatitude, maximumLatitude: $maximumLatitude, minimumLongitude: $minimumLongitude, maximumLongitude: $maximumLongitude) {
    stationId
    updateType
    station { ` + "%s" + ` }
  }
}`

// snapshotQuery собирает запрос под режим карты. Переменные объявляются только
// те, что реально используются, иначе сервер отвергает запрос.
func snapshotQuery(mode domain.Mode, mapType domain.MapType) string {
	vars := []string{"$lat: Float!", "$lon: Float!", "$range: Int!", "$count: Int", "$codespaces: [String]", "$operators: [String]"}
	var fields []string

	if mode.IncludesVehicles() {
		vars = append(vars, "$formFactors: [FormFactor]", "$propulsionTypes: [PropulsionType]",
			"$includeReserved: Boolean", "$includeDisabled: Boolean")
		sel := vehicleFieldsBase
		if mapType == domain.MapTypeIcons {
			sel = vehicleFieldsFull
		}
		fields = append(fields, fmt.Sprintf(`vehicles(lat: $lat, lon: $lon, range: $range, count: $count, codespaces: $codespaces, operators: $operators, formFactors: $formFactors, propulsionTypes: $propulsionTypes, includeReserved: $includeReserved, includeDisabled: $includeDisabled) { %s }`, sel))
	}
	if mode.IncludesStations() {
		sel := stationFieldsBase
		if mapType == domain.MapTypeIcons {
			sel = stationFieldsFull
		}
		fields = append(fields, fmt.Sprintf(`stations(lat: $lat, lon: $lon, range: $range, count: $count, codespaces: $codespaces, operators: $operators) { %s }`, sel))
	}

	return fmt.Sprintf("query Snapshot(%s) {\n  %s\n}", strings.Join(vars, ", "), strings.Join(fields, "\n  "))
}

// snapshotVariables: центр viewport и радиус из опций
func snapshotVariables(q domain.Query) map[string]interface{} {
	center := q.Viewport.Center()
	radius := q.Options.Radius
	if radius <= 0 {
		radius = domain.DefaultRadius
	}

	vars := map[string]interface{}{
		"lat":   center.Lat,
		"lon":   center.Lon,
		"range": radius,
	}
	if len(q.Filter.Codespaces) > 0 {
		vars["codespaces"] = q.Filter.Codespaces
	}
	if len(q.Filter.Operators) > 0 {
		vars["operators"] = q.Filter.Operators
	}
	if q.Mode().IncludesVehicles() {
		if len(q.Filter.FormFactors) > 0 {
			vars["formFactors"] = q.Filter.FormFactors
		}
		if len(q.Filter.PropulsionTypes) > 0 {
			vars["propulsionTypes"] = q.Filter.PropulsionTypes
		}
		vars["includeReserved"] = q.Filter.IncludeReserved
		vars["includeDisabled"] = q.Filter.IncludeDisabled
	}
	return vars
}

func bboxVariables(b domain.BoundingBox) map[string]interface{} {
	return map[string]interface{}{
		"minimumLatitude":  b.MinLat,
		"maximumLatitude":  b.MaxLat,
		"minimumLongitude": b.MinLon,
		"maximumLongitude": b.MaxLon,
	}
}
