package rules

import "github.com/nyaruka/phonenumbers"

// DefaultPhoneRegion is used when no region is configured.
const DefaultPhoneRegion = "AR"

// Phone accepts numbers that parse and validate for region.
func Phone(region string) Rule {
	if region == "" {
		region = DefaultPhoneRegion
	}
	return func(value any) *Violation {
		return typed(value, func(s string) *Violation {
			if !IsValidPhone(s, region) {
				return violation(CodeInvalidPhone, "must be a valid %s phone number", region)
			}
			return nil
		})
	}
}

func IsValidPhone(number, region string) bool {
	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(parsed, region)
}
