package service

import (
	"context"
	"fmt"
	"testing"

	"smarttax/internal/domain"
	"smarttax/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLocationService_Districts(t *testing.T) {
	stored := []domain.District{{ID: 10, Name: "Gasabo"}, {ID: 11, Name: "Kicukiro"}}

	tests := []struct {
		name      string
		mockList  []domain.District
		mockError error
		expected  []domain.District
	}{
		{
			name:     "stored districts",
			mockList: stored,
			expected: stored,
		},
		{
			name:     "empty store uses defaults",
			mockList: []domain.District{},
			expected: domain.DefaultDistricts,
		},
		{
			name:      "store error uses defaults",
			mockError: fmt.Errorf("db down"),
			expected:  domain.DefaultDistricts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockLocationRepository)
			mockRepo.On("ListDistricts", mock.Anything).Return(tt.mockList, tt.mockError)

			service := NewLocationService(mockRepo, testutil.NewTestLogger())

			districts, err := service.Districts(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, districts)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLocationService_Sectors(t *testing.T) {
	stored := []domain.Sector{{ID: 2, DistrictID: 1, Name: "Gasabo"}}

	tests := []struct {
		name       string
		districtID int64
		mockList   []domain.Sector
		mockError  error
		expected   []domain.Sector
	}{
		{
			name:       "stored sectors",
			districtID: 1,
			mockList:   stored,
			expected:   stored,
		},
		{
			name:       "empty store uses district defaults",
			districtID: 3,
			mockList:   nil,
			expected:   domain.DefaultSectors(3),
		},
		{
			name:       "store error on unknown district uses first district",
			districtID: 99,
			mockError:  fmt.Errorf("db down"),
			expected:   domain.DefaultSectors(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockLocationRepository)
			mockRepo.On("ListSectors", mock.Anything, tt.districtID).Return(tt.mockList, tt.mockError)

			service := NewLocationService(mockRepo, testutil.NewTestLogger())

			sectors, err := service.Sectors(context.Background(), tt.districtID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, sectors)
			mockRepo.AssertExpectations(t)
		})
	}
}
