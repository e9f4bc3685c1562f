package customers

import (
	"github.com/ttacon/libphonenumber"

	"github.com/wellvision/wellvision/internal/shared"
)

const region = "LK"

// NormalizePhone converts any accepted Sri Lankan mobile spelling (0771234567,
// 94771234567, +94771234567, 771234567) into E.164. The number must match the
// shared mobile pattern and be an allocated LK mobile range.
func NormalizePhone(tel string) (string, error) {
	m := shared.LKMobilePattern.FindStringSubmatch(tel)
	if m == nil {
		return "", shared.NewValidationError("tel", "must be a valid Sri Lankan mobile number")
	}
	num, err := libphonenumber.Parse("0"+m[1], region)
	if err != nil {
		return "", shared.NewValidationError("tel", "must be a valid Sri Lankan mobile number")
	}
	if !libphonenumber.IsValidNumberForRegion(num, region) || !isMobile(num) {
		return "", shared.NewValidationError("tel", "is not an allocated Sri Lankan mobile number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func isMobile(num *libphonenumber.PhoneNumber) bool {
	switch libphonenumber.GetNumberType(num) {
	case libphonenumber.MOBILE, libphonenumber.FIXED_LINE_OR_MOBILE:
		return true
	}
	return false
}
