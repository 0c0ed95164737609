package domain

import "strings"

type FormFactor string

const (
	FormFactorBicycle FormFactor = "BICYCLE"
	FormFactorCar     FormFactor = "CAR"
	FormFactorMoped   FormFactor = "MOPED"
	FormFactorScooter FormFactor = "SCOOTER"
	FormFactorOther   FormFactor = "OTHER"
)

var FormFactors = []FormFactor{
	FormFactorBicycle, FormFactorCar, FormFactorMoped, FormFactorScooter, FormFactorOther,
}

type PropulsionType string

const (
	PropulsionHuman          PropulsionType = "HUMAN"
	PropulsionElectricAssist PropulsionType = "ELECTRIC_ASSIST"
	PropulsionElectric       PropulsionType = "ELECTRIC"
	PropulsionCombustion     PropulsionType = "COMBUSTION"
)

var PropulsionTypes = []PropulsionType{
	PropulsionHuman, PropulsionElectricAssist, PropulsionElectric, PropulsionCombustion,
}

type VehicleType struct {
	ID             string            `json:"id,omitempty"`
	FormFactor     FormFactor        `json:"formFactor"`
	PropulsionType PropulsionType    `json:"propulsionType"`
	MaxRangeMeters *float64          `json:"maxRangeMeters,omitempty"`
	Name           *TranslatedString `json:"name,omitempty"`
}

type PricingPlan struct {
	ID          string            `json:"id"`
	URL         string            `json:"url,omitempty"`
	Name        TranslatedString  `json:"name"`
	Currency    string            `json:"currency"`
	Price       float64           `json:"price"`
	IsTaxable   bool              `json:"isTaxable"`
	Description *TranslatedString `json:"description,omitempty"`
}

type RentalUris struct {
	Android string `json:"android,omitempty"`
	IOS     string `json:"ios,omitempty"`
	Web     string `json:"web,omitempty"`
}

// Vehicle - свободно паркуемое ТС. Опциональные поля указателями:
// nil значит "поле не пришло", это важно для мержа частичных обновлений.
type Vehicle struct {
	ID                 string       `json:"id" validate:"required"`
	Lat                float64      `json:"lat" validate:"finite,min=-90,max=90"`
	Lon                float64      `json:"lon" validate:"finite,min=-180,max=180"`
	System             *System      `json:"system,omitempty"`
	VehicleType        *VehicleType `json:"vehicleType,omitempty"`
	PricingPlan        *PricingPlan `json:"pricingPlan,omitempty"`
	RentalUris         *RentalUris  `json:"rentalUris,omitempty"`
	IsReserved         *bool        `json:"isReserved,omitempty"`
	IsDisabled         *bool        `json:"isDisabled,omitempty"`
	CurrentRangeMeters *float64     `json:"currentRangeMeters,omitempty"`
}

func (v Vehicle) EntityID() string { return v.ID }

func (v Vehicle) Position() (float64, float64) { return v.Lat, v.Lon }

// Merge - поверхностный мерж: присутствующие поля patch перекрывают текущие
func (v Vehicle) Merge(patch Vehicle) Vehicle {
	out := v
	if patch.ID != "" {
		out.ID = patch.ID
	}
	out.Lat, out.Lon = patch.Lat, patch.Lon
	if patch.System != nil {
		out.System = patch.System
	}
	if patch.VehicleType != nil {
		out.VehicleType = patch.VehicleType
	}
	if patch.PricingPlan != nil {
		out.PricingPlan = patch.PricingPlan
	}
	if patch.RentalUris != nil {
		out.RentalUris = patch.RentalUris
	}
	if patch.IsReserved != nil {
		out.IsReserved = patch.IsReserved
	}
	if patch.IsDisabled != nil {
		out.IsDisabled = patch.IsDisabled
	}
	if patch.CurrentRangeMeters != nil {
		out.CurrentRangeMeters = patch.CurrentRangeMeters
	}
	return out
}

// Icon: имя иконки по form factor, все варианты scooter* сводятся к "scooter"
func (v Vehicle) Icon() string {
	if v.VehicleType == nil || v.VehicleType.FormFactor == "" {
		return strings.ToLower(string(FormFactorOther))
	}
	ff := strings.ToLower(string(v.VehicleType.FormFactor))
	if strings.HasPrefix(ff, "scooter") {
		return "scooter"
	}
	return ff
}

// OperatorID тянется через system, у части фидов его нет
func (v Vehicle) OperatorID() string {
	if v.System == nil || v.System.Operator == nil {
		return ""
	}
	return v.System.Operator.ID
}
