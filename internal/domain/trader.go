package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Trader represents a registered business owner
type Trader struct {
	ID           int64
	FullName     string
	BusinessName string
	Phone        string
	MomoNumber   string
	Email        string
	Category     string
	TIN          string
	DistrictID   int64
	SectorID     int64
	PINHash      string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Filled from reference data when available, never persisted
	DistrictName string
	SectorName   string
}

// Categories is the fixed business category menu, in display order
var Categories = []Option{
	{ID: 1, Name: "Retail Shop"},
	{ID: 2, Name: "Restaurant"},
	{ID: 3, Name: "Market Vendor"},
	{ID: 4, Name: "Service Provider"},
	{ID: 5, Name: "Wholesaler"},
	{ID: 6, Name: "Other"},
}

// Registration holds everything collected by the registration flow
type Registration struct {
	FullName     string
	Email        string
	Phone        string
	MomoNumber   string
	Category     string
	BusinessName string
	TIN          string
	DistrictID   int64
	DistrictName string
	SectorID     int64
	SectorName   string
	PIN          string
}

// ApplyDefaults fills derived fields left empty by the flow
func (r *Registration) ApplyDefaults(now time.Time) {
	if r.BusinessName == "" {
		r.BusinessName = fmt.Sprintf("%s - %s", r.FullName, r.Category)
	}
	if r.TIN == "" {
		millis := strconv.FormatInt(now.UnixMilli(), 10)
		if len(millis) > 8 {
			millis = millis[len(millis)-8:]
		}
		r.TIN = "TIN-" + millis
	}
	if r.MomoNumber == "" {
		r.MomoNumber = r.Phone
	}
	if r.DistrictID == 0 {
		district := DefaultDistricts[0]
		r.DistrictID = district.ID
		r.DistrictName = district.Name
	}
	if r.SectorID == 0 {
		if sectors := DefaultSectors(r.DistrictID); len(sectors) > 0 {
			r.SectorID = sectors[0].ID
			r.SectorName = sectors[0].Name
		}
	}
}

// Trader builds the record handed to the repository. The PIN hash is set by the caller.
func (r *Registration) Trader() *Trader {
	return &Trader{
		FullName:     r.FullName,
		BusinessName: r.BusinessName,
		Phone:        r.Phone,
		MomoNumber:   r.MomoNumber,
		Email:        r.Email,
		Category:     r.Category,
		TIN:          r.TIN,
		DistrictID:   r.DistrictID,
		SectorID:     r.SectorID,
		DistrictName: r.DistrictName,
		SectorName:   r.SectorName,
		Active:       true,
	}
}

// ValidPIN reports whether pin is exactly four ASCII digits
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
