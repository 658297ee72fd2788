package domain

import "time"

// Client is one row of the client dimension table.
type Client struct {
	ClientID         string
	ParentSubID      string
	MasterPartnerID  string
	Name             string
	RegistrationDate *time.Time // nullable, informational
}

// SubAffiliate is one row of the sub-affiliate dimension table.
// IsCommissionFarmer is a ground-truth label carried through from data
// generation; detectors never consult it.
type SubAffiliate struct {
	SubAffiliateID     string
	ParentPartnerID    string
	Name               string
	IsCommissionFarmer bool
}

// Partner is one row of the partner dimension table.
type Partner struct {
	PartnerID string
	Name      string
	Country   string
}
