package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portal/internal/domain/activity"
)

type activityDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Quota       int    `json:"quota"`
	Registered  int    `json:"registered"`
	Points      int    `json:"points"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

func (d activityDTO) toDomain() activity.Activity {
	return activity.Activity{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		StartDate:   parseDate(d.StartDate),
		EndDate:     parseDate(d.EndDate),
		Quota:       d.Quota,
		Registered:  d.Registered,
		Points:      d.Points,
		ImageURL:    d.ImageURL,
		Status:      d.Status,
	}
}

// ActivityQuery filters the activity listing.
type ActivityQuery struct {
	Search   string
	Category string
}

// ListActivities fetches the browsable activities.
func (c *Client) ListActivities(ctx context.Context, query ActivityQuery) ([]activity.Activity, error) {
	q := url.Values{}
	if query.Search != "" {
		q.Set("q", query.Search)
	}
	if query.Category != "" {
		q.Set("category", query.Category)
	}
	var out struct {
		Data []activityDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/activities", q, nil, &out); err != nil {
		return nil, err
	}
	acts := make([]activity.Activity, 0, len(out.Data))
	for _, d := range out.Data {
		acts = append(acts, d.toDomain())
	}
	return acts, nil
}

// GetActivity fetches one activity; absent activities report (zero, false, nil).
func (c *Client) GetActivity(ctx context.Context, id int64) (activity.Activity, bool, error) {
	var dto activityDTO
	err := c.do(ctx, http.MethodGet, "/activities/"+strconv.FormatInt(id, 10), nil, nil, &dto)
	if err != nil {
		if IsNotFound(err) {
			return activity.Activity{}, false, nil
		}
		return activity.Activity{}, false, err
	}
	return dto.toDomain(), true, nil
}

// parseDate accepts the backend's date formats; zero time when unparseable.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
