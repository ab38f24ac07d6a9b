package models

// OfficerKind tags the officer context variant.
type OfficerKind string

const (
	OfficerNone       OfficerKind = "none"
	OfficerProvincial OfficerKind = "provincial"
	OfficerDistrict   OfficerKind = "district"
	OfficerCommune    OfficerKind = "commune"
)

// OfficerContext is the single officer scope selected for a user. Only the ids
// relevant to Kind are set; zero means absent.
type OfficerContext struct {
	Kind       OfficerKind   `json:"kind"`
	ProvinceID int           `json:"provinceId,omitempty"`
	DistrictID int           `json:"districtId,omitempty"`
	CommuneID  int           `json:"communeId,omitempty"`
	Embedded   LocationNames `json:"-"`
}

// LocationNames holds display names for an officer scope. Nil means unresolved.
type LocationNames struct {
	ProvinceName *string `json:"provinceName,omitempty"`
	DistrictName *string `json:"districtName,omitempty"`
	CommuneName  *string `json:"communeName,omitempty"`
}

// SelectOfficerContext picks the officer payload with precedence
// provincial > district > commune. A role listed in OfficerRoles without a
// payload still selects that kind, with no ids.
func SelectOfficerContext(u *User) OfficerContext {
	if u == nil {
		return OfficerContext{Kind: OfficerNone}
	}
	switch {
	case u.ProvincialOfficer != nil:
		p := u.ProvincialOfficer
		return OfficerContext{
			Kind:       OfficerProvincial,
			ProvinceID: p.ProvinceID,
			Embedded:   LocationNames{ProvinceName: nonEmpty(p.ProvinceName)},
		}
	case u.DistrictOfficer != nil:
		d := u.DistrictOfficer
		return OfficerContext{
			Kind:       OfficerDistrict,
			ProvinceID: d.ProvinceID,
			DistrictID: d.DistrictID,
			Embedded: LocationNames{
				ProvinceName: nonEmpty(d.ProvinceName),
				DistrictName: nonEmpty(d.DistrictName),
			},
		}
	case u.CommuneOfficer != nil:
		c := u.CommuneOfficer
		return OfficerContext{
			Kind:       OfficerCommune,
			ProvinceID: c.ProvinceID,
			DistrictID: c.DistrictID,
			CommuneID:  c.CommuneID,
			Embedded: LocationNames{
				ProvinceName: nonEmpty(c.ProvinceName),
				DistrictName: nonEmpty(c.DistrictName),
				CommuneName:  nonEmpty(c.CommuneName),
			},
		}
	case u.HasRole(RoleProvincialOfficer):
		return OfficerContext{Kind: OfficerProvincial}
	case u.HasRole(RoleDistrictOfficer):
		return OfficerContext{Kind: OfficerDistrict}
	case u.HasRole(RoleCommuneOfficer):
		return OfficerContext{Kind: OfficerCommune}
	default:
		return OfficerContext{Kind: OfficerNone}
	}
}

// OfficerPayloadCount counts populated officer payloads on u. More than one
// violates the single-officer assumption and is resolved by precedence.
func OfficerPayloadCount(u *User) int {
	if u == nil {
		return 0
	}
	n := 0
	if u.ProvincialOfficer != nil {
		n++
	}
	if u.DistrictOfficer != nil {
		n++
	}
	if u.CommuneOfficer != nil {
		n++
	}
	return n
}

// Levels lists the location levels displayed for this context, outermost first.
func (o OfficerContext) Levels() []LocationLevel {
	switch o.Kind {
	case OfficerProvincial:
		return []LocationLevel{LevelProvince}
	case OfficerDistrict:
		return []LocationLevel{LevelProvince, LevelDistrict}
	case OfficerCommune:
		return []LocationLevel{LevelProvince, LevelDistrict, LevelCommune}
	default:
		return nil
	}
}

// ResponsibilityView names a dashboard section shown for a role.
type ResponsibilityView string

const (
	ViewProvincial ResponsibilityView = "provincial"
	ViewDistrict   ResponsibilityView = "district"
	ViewCommune    ResponsibilityView = "commune"
	ViewTeacher    ResponsibilityView = "teacher"
)

// Responsibilities is the resolved multi-role view for an officer. Partial
// is set when at least one level shows a fallback label instead of a name.
type Responsibilities struct {
	UserID  int                  `json:"userId"`
	Roles   []UserRole           `json:"roles"`
	Views   []ResponsibilityView `json:"views"`
	Officer OfficerContext       `json:"officer"`
	Names   LocationNames        `json:"names"`
	Partial bool                 `json:"partial"`
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
