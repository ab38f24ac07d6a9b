package schoolapi

import (
	"context"
	"fmt"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

// locationName is the shape of a single location lookup.
type locationName struct {
	NameKH string `json:"name_kh"`
	NameEN string `json:"name_en"`
}

// Provinces lists all provinces.
func (c *Client) Provinces(ctx context.Context) ([]models.Province, error) {
	var provinces []models.Province
	if err := c.get(ctx, "provinces", "/locations/provinces", nil, &provinces); err != nil {
		return nil, err
	}
	return provinces, nil
}

// DistrictsByProvince lists the districts of a province.
func (c *Client) DistrictsByProvince(ctx context.Context, provinceID int) ([]models.District, error) {
	var districts []models.District
	if err := c.get(ctx, "districts", fmt.Sprintf("/locations/provinces/%d/districts", provinceID), nil, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// ProvinceName returns the localized province name, or "" when the service has none.
func (c *Client) ProvinceName(ctx context.Context, id int, lang string) (string, error) {
	return c.lookupName(ctx, "province_name", fmt.Sprintf("/locations/provinces/%d", id), lang)
}

// DistrictName returns the localized district name within a province.
func (c *Client) DistrictName(ctx context.Context, provinceID, id int, lang string) (string, error) {
	return c.lookupName(ctx, "district_name", fmt.Sprintf("/locations/provinces/%d/districts/%d", provinceID, id), lang)
}

// CommuneName returns the localized commune name within a district.
func (c *Client) CommuneName(ctx context.Context, provinceID, districtID, id int, lang string) (string, error) {
	return c.lookupName(ctx, "commune_name", fmt.Sprintf("/locations/provinces/%d/districts/%d/communes/%d", provinceID, districtID, id), lang)
}

func (c *Client) lookupName(ctx context.Context, operation, path, lang string) (string, error) {
	var name locationName
	if err := c.get(ctx, operation, path, nil, &name); err != nil {
		return "", err
	}
	return models.LocalizedName(name.NameKH, name.NameEN, lang), nil
}
