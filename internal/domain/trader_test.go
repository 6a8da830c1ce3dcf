package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidPIN(t *testing.T) {
	tests := []struct {
		pin      string
		expected bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{"١٢٣٤", false},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidPIN(tt.pin))
		})
	}
}

func TestRegistration_ApplyDefaults(t *testing.T) {
	now := time.UnixMilli(1718445600123)

	t.Run("derives missing fields", func(t *testing.T) {
		reg := Registration{FullName: "Jane", Phone: "250788000001", Category: "Restaurant"}

		reg.ApplyDefaults(now)

		assert.Equal(t, "Jane - Restaurant", reg.BusinessName)
		assert.Equal(t, "TIN-45600123", reg.TIN)
		assert.Equal(t, "250788000001", reg.MomoNumber)
		assert.Equal(t, int64(1), reg.DistrictID)
		assert.Equal(t, "Kigali City", reg.DistrictName)
		assert.Equal(t, int64(1), reg.SectorID)
		assert.Equal(t, "Nyarugenge", reg.SectorName)
	})

	t.Run("keeps collected fields", func(t *testing.T) {
		reg := Registration{
			FullName:   "Jane",
			Phone:      "250788000001",
			MomoNumber: "250788999999",
			Category:   "Other",
			DistrictID: 3,
			SectorID:   10,
			SectorName: "Huye",
		}

		reg.ApplyDefaults(now)

		assert.Equal(t, "250788999999", reg.MomoNumber)
		assert.Equal(t, int64(3), reg.DistrictID)
		assert.Equal(t, int64(10), reg.SectorID)
		assert.Equal(t, "Huye", reg.SectorName)
	})

	t.Run("trader record", func(t *testing.T) {
		reg := Registration{FullName: "Jane", Phone: "250788000001", Category: "Other", Email: "jane@x.com"}
		reg.ApplyDefaults(now)

		tr := reg.Trader()

		assert.True(t, tr.Active)
		assert.Equal(t, reg.TIN, tr.TIN)
		assert.Equal(t, "jane@x.com", tr.Email)
		assert.Empty(t, tr.PINHash)
	})
}

func TestDefaultSectors(t *testing.T) {
	for _, d := range DefaultDistricts {
		sectors := DefaultSectors(d.ID)
		assert.NotEmpty(t, sectors, d.Name)
		for _, s := range sectors {
			assert.Equal(t, d.ID, s.DistrictID)
		}
	}

	assert.Equal(t, DefaultSectors(1), DefaultSectors(99))
}

func TestOptions(t *testing.T) {
	opts := DistrictOptions([]District{{ID: 4, Name: "Eastern Province"}, {ID: 1, Name: "Kigali City"}})
	assert.Equal(t, []Option{{ID: 4, Name: "Eastern Province"}, {ID: 1, Name: "Kigali City"}}, opts)

	sopts := SectorOptions([]Sector{{ID: 2, DistrictID: 1, Name: "Gasabo"}})
	assert.Equal(t, []Option{{ID: 2, Name: "Gasabo"}}, sopts)
}
