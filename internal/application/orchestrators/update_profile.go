package orchestrators

import (
	"context"

	"portal/internal/domain/form"
	"portal/internal/domain/profile"
)

// UpdateProfileInput carries the edited profile values.
type UpdateProfileInput struct {
	Values form.ValueRecord
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	Profiles ProfileService
}

// ExecuteUpdateProfile overlays the edited values onto the current profile,
// validates the result, and writes it back.
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (profile.Profile, error) {
	current, err := deps.Profiles.GetMyProfile(ctx)
	if err != nil {
		return profile.Profile{}, err
	}

	merged := current.Record()
	merged.Merge(input.Values)
	updated := current.FromRecord(merged)
	if err := updated.Validate(); err != nil {
		return profile.Profile{}, err
	}

	if err := deps.Profiles.UpdateProfile(ctx, merged); err != nil {
		return profile.Profile{}, err
	}
	return updated, nil
}
