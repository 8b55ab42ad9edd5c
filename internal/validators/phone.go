package validators

import "regexp"

// 8 to 15 digits, optional leading '+'.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func IsPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}
