package profile

import (
	"errors"

	"portal/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyName  = errors.New("nama lengkap wajib diisi")
	ErrEmptyEmail = errors.New("email wajib diisi")
)

// Profile is the member identity the backend keeps. The wizard's profile
// step edits it through the profile endpoint before advancing.
type Profile struct {
	FullName      string
	Email         string
	Phone         string
	StudentNumber string
	Institution   string
	Major         string
	BirthDate     string // ISO date, as the backend stores it
	Gender        string
}

// Validate checks the minimal shape the portal cares about; everything else
// is the backend's problem.
func (p Profile) Validate() error {
	if p.FullName == "" {
		return ErrEmptyName
	}
	if p.Email == "" {
		return ErrEmptyEmail
	}
	return nil
}

// Record flattens the profile into the value record used to pre-fill a
// schema's profile section. Keys follow the backend's field key convention.
func (p Profile) Record() form.ValueRecord {
	return form.ValueRecord{
		"full_name":      p.FullName,
		"email":          p.Email,
		"phone":          p.Phone,
		"student_number": p.StudentNumber,
		"institution":    p.Institution,
		"major":          p.Major,
		"birth_date":     p.BirthDate,
		"gender":         p.Gender,
	}
}

// FromRecord applies edited profile-section values over an existing profile.
// Keys absent from the record keep their current value.
func (p Profile) FromRecord(rec form.ValueRecord) Profile {
	get := func(key, current string) string {
		if v, ok := rec[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return current
	}
	return Profile{
		FullName:      get("full_name", p.FullName),
		Email:         get("email", p.Email),
		Phone:         get("phone", p.Phone),
		StudentNumber: get("student_number", p.StudentNumber),
		Institution:   get("institution", p.Institution),
		Major:         get("major", p.Major),
		BirthDate:     get("birth_date", p.BirthDate),
		Gender:        get("gender", p.Gender),
	}
}
