package models

import "fmt"

// LocationLevel names the administrative tiers used for officer scopes.
type LocationLevel string

const (
	LevelProvince LocationLevel = "province"
	LevelDistrict LocationLevel = "district"
	LevelCommune  LocationLevel = "commune"
)

// FallbackLabel is shown when a level's name cannot be resolved, e.g. "Province 3".
func (l LocationLevel) FallbackLabel(id int) string {
	switch l {
	case LevelProvince:
		return fmt.Sprintf("Province %d", id)
	case LevelDistrict:
		return fmt.Sprintf("District %d", id)
	case LevelCommune:
		return fmt.Sprintf("Commune %d", id)
	default:
		return fmt.Sprintf("%d", id)
	}
}

// Province is a filter option.
type Province struct {
	ID     int    `json:"id" db:"id"`
	NameKH string `json:"province_name_kh" db:"name_kh"`
	NameEN string `json:"province_name_en" db:"name_en"`
}

// District is a filter option scoped to a province.
type District struct {
	ID         int    `json:"id" db:"id"`
	ProvinceID int    `json:"province_id" db:"province_id"`
	NameKH     string `json:"district_name_kh" db:"name_kh"`
	NameEN     string `json:"district_name_en" db:"name_en"`
}

// LocalizedName picks the name for lang ("en" or Khmer by default), falling
// back to whichever variant is present.
func LocalizedName(kh, en, lang string) string {
	if lang == "en" {
		if en != "" {
			return en
		}
		return kh
	}
	if kh != "" {
		return kh
	}
	return en
}

// LocationOption is a display-ready select option.
type LocationOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GazetteerEntry is a row of the local location-name table.
type GazetteerEntry struct {
	Level      LocationLevel `db:"level"`
	ProvinceID int           `db:"province_id"`
	DistrictID int           `db:"district_id"`
	ID         int           `db:"id"`
	NameKH     string        `db:"name_kh"`
	NameEN     string        `db:"name_en"`
}
