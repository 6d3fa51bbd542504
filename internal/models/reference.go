package models

import "strconv"

// Province is an Argentine province as returned by the GeoRef API.
type Province struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"nombre" yaml:"nombre"`
}

// City is a municipality belonging to a province.
type City struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"nombre" yaml:"nombre"`
}

// VehicleBrand is a brand offered by the vehicle catalogue.
type VehicleBrand struct {
	Code        int    `json:"codigo" yaml:"codigo"`
	Description string `json:"desc" yaml:"desc"`
}

// VehicleModel depends on brand and year.
type VehicleModel struct {
	Code        int    `json:"codigo" yaml:"codigo"`
	Description string `json:"desc" yaml:"desc"`
}

// VehicleVersion depends on brand, year and model.
type VehicleVersion struct {
	Code        int    `json:"codigo" yaml:"codigo"`
	Description string `json:"desc" yaml:"desc"`
}

// VehicleYear is a model year offered for selection.
type VehicleYear int

func (y VehicleYear) String() string {
	return strconv.Itoa(int(y))
}
