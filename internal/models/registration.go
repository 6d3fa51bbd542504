package models

import (
	"time"

	"github.com/google/uuid"
)

// Address groups the location fields collected in the personal data step.
type Address struct {
	Province Province `json:"province"`
	City     City     `json:"city"`
	Street   string   `json:"street"`
}

// PersonalInformation is the payload of the personal data step.
type PersonalInformation struct {
	IDNumber        string    `json:"idNumber"`
	Name            string    `json:"name"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email,omitempty"`
	PhoneNumber     string    `json:"phoneNumber,omitempty"`
	CellphoneNumber string    `json:"cellphoneNumber,omitempty"`
	BirthDate       time.Time `json:"birthDate"`
	Address         Address   `json:"address"`
	Username        string    `json:"username"`
	Password        string    `json:"password"`
}

// VehicleInformation is the payload of the vehicle data step. Version is optional.
type VehicleInformation struct {
	Brand   VehicleBrand    `json:"brand"`
	Year    VehicleYear     `json:"year"`
	Model   VehicleModel    `json:"model"`
	Version *VehicleVersion `json:"version,omitempty"`
}

// Coverage is a selectable insurance plan.
type Coverage struct {
	Number       int     `json:"numero" yaml:"numero"`
	Cost         float64 `json:"costo" yaml:"costo"`
	Product      string  `json:"producto" yaml:"producto"`
	Text         string  `json:"texto" yaml:"texto"`
	Deductible   float64 `json:"franquicia" yaml:"franquicia"`
	ProductCode  int     `json:"codigoProducto" yaml:"codigoProducto"`
	Title        string  `json:"titulo" yaml:"titulo"`
	Description  string  `json:"descripcion" yaml:"descripcion"`
	Score        int     `json:"puntaje" yaml:"puntaje"`
	HailCoverage bool    `json:"granizo" yaml:"granizo"`
}

// RegistrationDraft accumulates step payloads for one wizard session.
// It is a value: every With* call returns a new draft and leaves the receiver untouched.
type RegistrationDraft struct {
	PersonalInformation *PersonalInformation `json:"personalInformation,omitempty"`
	VehicleInformation  *VehicleInformation  `json:"vehicleInformation,omitempty"`
	Coverage            *Coverage            `json:"coverage,omitempty"`
}

func (d RegistrationDraft) WithPersonalInformation(p PersonalInformation) RegistrationDraft {
	d.PersonalInformation = &p
	return d
}

func (d RegistrationDraft) WithVehicleInformation(v VehicleInformation) RegistrationDraft {
	if v.Version != nil {
		version := *v.Version
		v.Version = &version
	}
	d.VehicleInformation = &v
	return d
}

func (d RegistrationDraft) WithCoverage(c Coverage) RegistrationDraft {
	d.Coverage = &c
	return d
}

// Complete reports whether every section has been merged.
func (d RegistrationDraft) Complete() bool {
	return d.PersonalInformation != nil && d.VehicleInformation != nil && d.Coverage != nil
}

// Masked returns a copy safe to display or log: the password is blanked.
func (d RegistrationDraft) Masked() RegistrationDraft {
	if d.PersonalInformation != nil {
		p := *d.PersonalInformation
		if p.Password != "" {
			p.Password = "********"
		}
		d.PersonalInformation = &p
	}
	return d
}

// Confirmation is returned once a registration has been accepted.
type Confirmation struct {
	ID           uuid.UUID         `json:"id"`
	Registration RegistrationDraft `json:"registration"`
	RegisteredAt time.Time         `json:"registeredAt"`
}
