package backend

import (
	"context"
	"net/http"

	"portal/internal/domain/form"
	"portal/internal/domain/profile"
)

type profileDTO struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	StudentNumber string `json:"student_number"`
	Institution   string `json:"institution"`
	Major         string `json:"major"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
}

func (d profileDTO) toDomain() profile.Profile {
	return profile.Profile{
		FullName:      d.FullName,
		Email:         d.Email,
		Phone:         d.Phone,
		StudentNumber: d.StudentNumber,
		Institution:   d.Institution,
		Major:         d.Major,
		BirthDate:     d.BirthDate,
		Gender:        d.Gender,
	}
}

// GetMyProfile fetches the signed-in member's profile.
func (c *Client) GetMyProfile(ctx context.Context) (profile.Profile, error) {
	var dto profileDTO
	if err := c.do(ctx, http.MethodGet, "/profiles/me", nil, nil, &dto); err != nil {
		return profile.Profile{}, err
	}
	return dto.toDomain(), nil
}

// UpdateProfile persists profile-section edits. The wizard calls this before
// advancing past the profile step; the profile page calls it directly.
func (c *Client) UpdateProfile(ctx context.Context, rec form.ValueRecord) error {
	return c.do(ctx, http.MethodPut, "/profiles", nil, rec, nil)
}
