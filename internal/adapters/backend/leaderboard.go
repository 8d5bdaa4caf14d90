package backend

import (
	"context"
	"net/http"
	"net/url"

	"portal/internal/domain/leaderboard"
)

type leaderboardEntryDTO struct {
	Rank          int    `json:"rank"`
	MemberID      int64  `json:"member_id"`
	Name          string `json:"name"`
	Institution   string `json:"institution"`
	Points        int    `json:"points"`
	ActivityCount int    `json:"activity_count"`
}

// GetLeaderboard fetches the scoring leaderboard for a period. Ranks are
// computed by the backend; the portal never re-scores.
func (c *Client) GetLeaderboard(ctx context.Context, period string) (leaderboard.Board, error) {
	period = leaderboard.NormalizePeriod(period)
	var out struct {
		Data []leaderboardEntryDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/leaderboard", url.Values{"period": {period}}, nil, &out); err != nil {
		return leaderboard.Board{}, err
	}
	board := leaderboard.Board{Period: period}
	for _, d := range out.Data {
		board.Entries = append(board.Entries, leaderboard.Entry{
			Rank:          d.Rank,
			MemberID:      d.MemberID,
			Name:          d.Name,
			Institution:   d.Institution,
			Points:        d.Points,
			ActivityCount: d.ActivityCount,
		})
	}
	return board, nil
}
