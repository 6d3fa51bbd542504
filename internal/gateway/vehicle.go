package gateway

import (
	"context"
	"strconv"
	"time"

	"insured-registration/internal/models"
)

func (c *Client) Brands(ctx context.Context) ([]models.VehicleBrand, error) {
	var brands []models.VehicleBrand
	err := c.observe(ctx, "brands", c.opts.VehiclesTimeout, func(ctx context.Context) error {
		return c.http.GetJSON(ctx, c.opts.VehiclesURL, "vehiculos/marcas", nil, &brands)
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *Client) Models(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear) ([]models.VehicleModel, error) {
	var result []models.VehicleModel
	err := c.observe(ctx, "models", c.opts.VehiclesTimeout, func(ctx context.Context) error {
		path := "vehiculos/marcas/" + strconv.Itoa(brand.Code) + "/" + year.String()
		return c.http.GetJSON(ctx, c.opts.VehiclesURL, path, nil, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Versions(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear, model models.VehicleModel) ([]models.VehicleVersion, error) {
	var versions []models.VehicleVersion
	err := c.observe(ctx, "versions", c.opts.VehiclesTimeout, func(ctx context.Context) error {
		path := "vehiculos/marcas/" + strconv.Itoa(brand.Code) + "/" + year.String() + "/" + strconv.Itoa(model.Code)
		return c.http.GetJSON(ctx, c.opts.VehiclesURL, path, nil, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Years returns the selectable model years. It never fails.
func (c *Client) Years(_ context.Context) ([]models.VehicleYear, error) {
	return YearsFrom(c.opts.Now(), c.opts.YearRange), nil
}

// YearsFrom returns n consecutive years descending from now's calendar year.
func YearsFrom(now time.Time, n int) []models.VehicleYear {
	years := make([]models.VehicleYear, 0, n)
	current := now.Year()
	for i := 0; i < n; i++ {
		years = append(years, models.VehicleYear(current-i))
	}
	return years
}
