package menu

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"smarttax/internal/domain"

	"go.uber.org/zap"
)

// Registration steps, named by the value the step consumes
const (
	regFullName = iota + 1
	regEmail
	regDistrict
	regSector
	regCategory
	regPIN
)

func (m *Machine) registration(ctx context.Context, sess *domain.Session, choice string) Response {
	switch sess.Flow.Step {
	case regFullName:
		name := strings.TrimSpace(choice)
		if name == "" {
			return End(MsgInvalidName)
		}
		sess.Set(domain.KeyFullName, name)
		sess.Advance()
		return Con(promptEmail)

	case regEmail:
		sess.Set(domain.KeyEmail, strings.TrimSpace(choice))
		sess.Set(domain.KeyMomoNumber, sess.PhoneNumber)

		districts, err := m.deps.Locations.Districts(ctx)
		if err != nil {
			m.logger.Error("Failed to load districts", zap.Error(err))
			return End(MsgUnavailable)
		}
		if len(districts) == 0 {
			return End(MsgNoDistricts)
		}
		sess.Flow.Options = domain.DistrictOptions(districts)
		sess.Advance()
		return Con(renderOptions(titleDistricts, sess.Flow.Options))

	case regDistrict:
		district, ok := pick(sess.Flow.Options, choice)
		if !ok {
			return End(MsgInvalidDistrict)
		}
		sess.Set(domain.KeyDistrictID, strconv.FormatInt(district.ID, 10))
		sess.Set(domain.KeyDistrictName, district.Name)

		sectors, err := m.deps.Locations.Sectors(ctx, district.ID)
		if errors.Is(err, domain.ErrNoLocations) || (err == nil && len(sectors) == 0) {
			return End(MsgNoSectors)
		}
		if err != nil {
			m.logger.Error("Failed to load sectors",
				zap.Int64("district_id", district.ID),
				zap.Error(err),
			)
			return End(MsgUnavailable)
		}
		sess.Flow.Options = domain.SectorOptions(sectors)
		sess.Advance()
		return Con(renderOptions(titleSectors, sess.Flow.Options))

	case regSector:
		sector, ok := pick(sess.Flow.Options, choice)
		if !ok {
			return End(MsgInvalidSector)
		}
		sess.Set(domain.KeySectorID, strconv.FormatInt(sector.ID, 10))
		sess.Set(domain.KeySectorName, sector.Name)
		sess.Flow.Options = domain.Categories
		sess.Advance()
		return Con(renderOptions(titleCategories, sess.Flow.Options))

	case regCategory:
		category, ok := pick(sess.Flow.Options, choice)
		if !ok {
			return End(MsgInvalidCategory)
		}
		sess.Set(domain.KeyCategory, category.Name)
		sess.Flow.Options = nil
		sess.Advance()
		return Con(promptNewPIN)

	case regPIN:
		return m.completeRegistration(ctx, sess, choice)
	}
	return End(MsgInvalidOption)
}

func (m *Machine) completeRegistration(ctx context.Context, sess *domain.Session, pin string) Response {
	if !domain.ValidPIN(pin) {
		return End(MsgInvalidNewPIN)
	}

	districtID, _ := strconv.ParseInt(sess.Get(domain.KeyDistrictID), 10, 64)
	sectorID, _ := strconv.ParseInt(sess.Get(domain.KeySectorID), 10, 64)

	trader, err := m.deps.Traders.Register(ctx, domain.Registration{
		FullName:     sess.Get(domain.KeyFullName),
		Email:        sess.Get(domain.KeyEmail),
		Phone:        sess.PhoneNumber,
		MomoNumber:   sess.Get(domain.KeyMomoNumber),
		Category:     sess.Get(domain.KeyCategory),
		DistrictID:   districtID,
		DistrictName: sess.Get(domain.KeyDistrictName),
		SectorID:     sectorID,
		SectorName:   sess.Get(domain.KeySectorName),
		PIN:          pin,
	})
	switch {
	case errors.Is(err, domain.ErrPhoneRegistered):
		return End(MsgPhoneRegistered)
	case errors.Is(err, domain.ErrInvalidPIN):
		return End(MsgInvalidNewPIN)
	case err != nil:
		m.logger.Error("Registration failed",
			zap.String("phone", sess.PhoneNumber),
			zap.Error(err),
		)
		return End(MsgRegisterFailed)
	}

	sess.Bind(trader)
	return End(registeredText(trader))
}
