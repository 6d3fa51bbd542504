package wizard

import (
	"strings"

	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/validation"
	"insured-registration/internal/models"
)

func referenceProperty(key string) validation.Property {
	return validation.Property{
		Type:       "object",
		Properties: map[string]validation.Property{key: {Type: primitiveOf(key)}},
		Required:   []string{key},
	}
}

func primitiveOf(key string) string {
	if key == "codigo" {
		return "integer"
	}
	return "string"
}

var draftSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"personalInformation": {
			Type: "object",
			Properties: map[string]validation.Property{
				"idNumber":        {Type: "string", Pattern: validation.StringPtr(`^[0-9]{7,8}$`)},
				"name":            {Type: "string", MinLength: validation.IntPtr(2), MaxLength: validation.IntPtr(15)},
				"lastName":        {Type: "string", MinLength: validation.IntPtr(2), MaxLength: validation.IntPtr(15)},
				"email":           {Type: "string", Format: "email"},
				"phoneNumber":     {Type: "string"},
				"cellphoneNumber": {Type: "string"},
				"birthDate":       {Type: "string", Format: "date-time"},
				"username":        {Type: "string", MinLength: validation.IntPtr(3), MaxLength: validation.IntPtr(30)},
				"password":        {Type: "string", MinLength: validation.IntPtr(1)},
				"address": {
					Type: "object",
					Properties: map[string]validation.Property{
						"province": referenceProperty("id"),
						"city":     referenceProperty("id"),
						"street":   {Type: "string", MinLength: validation.IntPtr(1)},
					},
					Required: []string{"province", "city", "street"},
				},
			},
			Required: []string{"idNumber", "name", "lastName", "birthDate", "address", "username", "password"},
		},
		"vehicleInformation": {
			Type: "object",
			Properties: map[string]validation.Property{
				"brand":   referenceProperty("codigo"),
				"year":    {Type: "integer", Minimum: validation.FloatPtr(1900)},
				"model":   referenceProperty("codigo"),
				"version": referenceProperty("codigo"),
			},
			Required: []string{"brand", "year", "model"},
		},
		"coverage": {
			Type: "object",
			Properties: map[string]validation.Property{
				"numero": {Type: "integer"},
			},
			Required: []string{"numero"},
		},
	},
	Required:             []string{"personalInformation", "vehicleInformation", "coverage"},
	AdditionalProperties: false,
}

// ValidateDraft checks the assembled draft before it is registered.
func ValidateDraft(draft models.RegistrationDraft) error {
	result, err := validation.Validate(draft, draftSchema)
	if err != nil {
		return apperrors.NewDraftInvalidError(err.Error())
	}
	if !result.Valid {
		stdErr := apperrors.NewDraftInvalidError(strings.Join(result.GetErrorMessages(), "; "))
		var sections []string
		for _, section := range draftSections {
			if len(result.GetErrorsForField(section)) > 0 {
				sections = append(sections, section)
			}
		}
		if len(sections) > 0 {
			stdErr.WithMetadata("sections", sections)
		}
		return stdErr
	}
	return nil
}

var draftSections = []string{"personalInformation", "vehicleInformation", "coverage"}
