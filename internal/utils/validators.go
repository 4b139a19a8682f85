package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEduEmail normalizes and validates a campus email address.
// Returns the normalized email on success.
func ValidateEduEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("Invalid email format")
	}
	if !strings.HasSuffix(email, ".edu") {
		return "", fmt.Errorf("Only .edu email addresses are allowed")
	}
	return email, nil
}

type ProfileInput struct {
	DisplayName *string  `json:"display_name"`
	Bio         *string  `json:"bio"`
	Major       *string  `json:"major"`
	GradYear    *int     `json:"graduation_year"`
	Interests   []string `json:"interests"`
	PhotoURL    *string  `json:"photo_url"`
}

func ValidateProfileInput(in *ProfileInput) []string {
	var errs []string
	if in == nil {
		return []string{"No profile data provided"}
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			errs = append(errs, "display_name must be a non-empty string")
		} else if len(*in.DisplayName) > 100 {
			errs = append(errs, "display_name must be 100 characters or fewer")
		}
	}
	if in.Bio != nil && len(*in.Bio) > 500 {
		errs = append(errs, "bio must be 500 characters or fewer")
	}
	if len(in.Interests) > 20 {
		errs = append(errs, "Maximum 20 interests allowed")
	}
	return errs
}

func ValidateCrewInput(name, description string) []string {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	} else if len(name) > 100 {
		errs = append(errs, "name must be 100 characters or fewer")
	}
	if len(description) > 500 {
		errs = append(errs, "description must be 500 characters or fewer")
	}
	return errs
}

func ValidateMissionInput(title, description string) []string {
	var errs []string
	if strings.TrimSpace(title) == "" {
		errs = append(errs, "title is required")
	} else if len(title) > 200 {
		errs = append(errs, "title must be 200 characters or fewer")
	}
	if strings.TrimSpace(description) == "" {
		errs = append(errs, "description is required")
	}
	return errs
}
