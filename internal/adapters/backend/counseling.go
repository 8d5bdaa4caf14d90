package backend

import (
	"context"
	"net/http"

	"portal/internal/domain/counseling"
)

type counselingRequestDTO struct {
	Topic         string `json:"topic"`
	Mode          string `json:"mode"`
	PreferredDate string `json:"preferred_date"`
	Notes         string `json:"notes,omitempty"`
}

// RequestCounseling forwards a peer counseling session request. Counselor
// matching happens in the backend; the returned id is only shown as a
// reference number.
func (c *Client) RequestCounseling(ctx context.Context, req counseling.Request) (string, error) {
	body := counselingRequestDTO{
		Topic:         req.Topic,
		Mode:          req.Mode,
		PreferredDate: req.PreferredDate.Format("2006-01-02"),
		Notes:         req.Notes,
	}
	var resp struct {
		Message string `json:"message"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/counseling-sessions", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}
