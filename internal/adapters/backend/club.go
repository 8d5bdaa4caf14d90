package backend

import (
	"context"
	"net/http"
	"strconv"

	"portal/internal/domain/club"
)

type clubDTO struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	MemberCount      int    `json:"member_count"`
	LogoURL          string `json:"logo_url"`
	AcceptingMembers bool   `json:"accepting_members"`
}

func (d clubDTO) toDomain() club.Club {
	return club.Club{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Category:         d.Category,
		MemberCount:      d.MemberCount,
		LogoURL:          d.LogoURL,
		AcceptingMembers: d.AcceptingMembers,
	}
}

// ListClubs fetches the browsable clubs.
func (c *Client) ListClubs(ctx context.Context) ([]club.Club, error) {
	var out struct {
		Data []clubDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/clubs", nil, nil, &out); err != nil {
		return nil, err
	}
	clubs := make([]club.Club, 0, len(out.Data))
	for _, d := range out.Data {
		clubs = append(clubs, d.toDomain())
	}
	return clubs, nil
}

// GetClub fetches one club; absent clubs report (zero, false, nil).
func (c *Client) GetClub(ctx context.Context, id int64) (club.Club, bool, error) {
	var dto clubDTO
	err := c.do(ctx, http.MethodGet, "/clubs/"+strconv.FormatInt(id, 10), nil, nil, &dto)
	if err != nil {
		if IsNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, err
	}
	return dto.toDomain(), true, nil
}
