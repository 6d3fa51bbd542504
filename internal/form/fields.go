package form

// Fields of the personal data step.
const (
	IDNumber        FieldID = "idNumber"
	Name            FieldID = "name"
	LastName        FieldID = "lastName"
	Email           FieldID = "email"
	PhoneNumber     FieldID = "phoneNumber"
	CellphoneNumber FieldID = "cellphoneNumber"
	BirthDate       FieldID = "birthDate"
	Province        FieldID = "province"
	City            FieldID = "city"
	Address         FieldID = "address"
	Username        FieldID = "username"
	Password        FieldID = "password"
)

// Fields of the vehicle data step.
const (
	Brand   FieldID = "brand"
	Year    FieldID = "year"
	Model   FieldID = "model"
	Version FieldID = "version"
)

// Coverage is the only field of the coverage step.
const Coverage FieldID = "coverage"
