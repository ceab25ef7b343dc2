package infinitecampus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// SearchDistrict looks up districts by name within a state (two letter code). The
// results are in the order the search endpoint ranks them.
func (c *Client) SearchDistrict(ctx context.Context, name, state string) ([]RawDistrict, error) {
	ctx, span := tracer.Start(ctx, "client:SearchDistrict")
	defer span.End()

	span.SetAttributes(
		attribute.String("district", name),
		attribute.String("state", state),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", name).
		SetQueryParam("state", state).
		Get(c.searchURL + "/mobile/searchDistrict")
	if err != nil {
		c.tel.ReportBroken(report_client_search_district, err)
		return nil, fail(span, fmt.Errorf("search district: %w", err))
	}

	body := res.Body()
	if res.StatusCode() == http.StatusNotFound || strings.Contains(string(body), "No results found") {
		return nil, fail(span, ErrDistrictNotFound)
	}
	if res.StatusCode() != http.StatusOK {
		c.tel.ReportWarning(report_client_search_district, res.StatusCode())
		return nil, fail(span, &StatusError{
			Operation: "search district",
			Status:    res.StatusCode(),
			Body:      string(body),
		})
	}

	var parsed districtSearchResponse
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		c.tel.ReportBroken(report_client_search_district, fmt.Errorf("json unmarshal: %w", err))
		return nil, fail(span, unexpected("search district", body, err))
	}
	if len(parsed.Data) == 0 {
		return nil, fail(span, ErrDistrictNotFound)
	}
	for _, district := range parsed.Data {
		if district.BaseURL == "" {
			return nil, fail(span, unexpected("search district", body, fmt.Errorf("district '%s' has no base url", district.Name)))
		}
	}
	return parsed.Data, nil
}
