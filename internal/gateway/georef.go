package gateway

import (
	"context"
	"net/url"
	"strconv"

	"insured-registration/internal/models"
)

const georefFields = "id,nombre"

type provincesResponse struct {
	Provinces []models.Province `json:"provincias"`
}

type citiesResponse struct {
	Cities []models.City `json:"municipios"`
}

func (c *Client) Provinces(ctx context.Context) ([]models.Province, error) {
	var resp provincesResponse
	err := c.observe(ctx, "provinces", c.opts.GeoRefTimeout, func(ctx context.Context) error {
		query := url.Values{"campos": {georefFields}}
		return c.http.GetJSON(ctx, c.opts.GeoRefURL, "provincias", query, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Provinces, nil
}

func (c *Client) Cities(ctx context.Context, province models.Province) ([]models.City, error) {
	var resp citiesResponse
	err := c.observe(ctx, "cities", c.opts.GeoRefTimeout, func(ctx context.Context) error {
		query := url.Values{
			"provincia": {province.ID},
			"campos":    {georefFields},
			"max":       {strconv.Itoa(c.opts.MaxCities)},
		}
		return c.http.GetJSON(ctx, c.opts.GeoRefURL, "municipios", query, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Cities, nil
}
