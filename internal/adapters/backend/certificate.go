package backend

import (
	"context"
	"net/http"
	"strconv"

	"portal/internal/domain/certificate"
)

type certificateDTO struct {
	ID            int64  `json:"id"`
	Number        string `json:"number"`
	Title         string `json:"title"`
	RecipientName string `json:"recipient_name"`
	ActivityName  string `json:"activity_name"`
	IssuedAt      string `json:"issued_at"`
	FileURL       string `json:"file_url"`
	Verified      bool   `json:"verified"`
}

func (d certificateDTO) toDomain() certificate.Certificate {
	return certificate.Certificate{
		ID:            d.ID,
		Number:        d.Number,
		Title:         d.Title,
		RecipientName: d.RecipientName,
		ActivityName:  d.ActivityName,
		IssuedAt:      parseDate(d.IssuedAt),
		FileURL:       d.FileURL,
		Verified:      d.Verified,
	}
}

// ListCertificates fetches the signed-in member's certificates.
func (c *Client) ListCertificates(ctx context.Context) ([]certificate.Certificate, error) {
	var out struct {
		Data []certificateDTO `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/certificates", nil, nil, &out); err != nil {
		return nil, err
	}
	certs := make([]certificate.Certificate, 0, len(out.Data))
	for _, d := range out.Data {
		certs = append(certs, d.toDomain())
	}
	return certs, nil
}

// GetCertificate fetches one certificate for the printable view.
func (c *Client) GetCertificate(ctx context.Context, id int64) (certificate.Certificate, bool, error) {
	var dto certificateDTO
	err := c.do(ctx, http.MethodGet, "/certificates/"+strconv.FormatInt(id, 10), nil, nil, &dto)
	if err != nil {
		if IsNotFound(err) {
			return certificate.Certificate{}, false, nil
		}
		return certificate.Certificate{}, false, err
	}
	return dto.toDomain(), true, nil
}
