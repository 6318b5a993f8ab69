package model

// HostContact is the best-known way to reach the host behind a plate.
type HostContact struct {
	HostID    string `json:"host_id,omitempty"`
	HostName  string `json:"host_name,omitempty"`
	HostPhone string `json:"host_phone,omitempty"`
}

func (c HostContact) Empty() bool {
	return c.HostID == "" && c.HostName == "" && c.HostPhone == ""
}

// VehicleInfo is the plate-search result: the visitor registration (if any)
// joined with the plate's full violation history and host contact details.
type VehicleInfo struct {
	PlateNumber     string      `json:"plate_number"`
	Visitor         *Visitor    `json:"visitor,omitempty"`
	Violations      []Violation `json:"violations"`
	ViolationCount  int         `json:"violation_count"`
	OwnerName       string      `json:"owner_name,omitempty"`
	VehicleCategory string      `json:"vehicle_category,omitempty"`
	GpsID           string      `json:"gps_id,omitempty"`
	HostContact
}
