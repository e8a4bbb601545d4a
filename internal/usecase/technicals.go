package usecase

import (
	"context"
	"errors"
	"fmt"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
)

// ErrTechnicalsDisabled is returned when no Alpha Vantage key is configured.
var ErrTechnicalsDisabled = errors.New("technical data provider not configured")

// TechnicalsUseCase serves intraday bars and indicators. A nil provider disables it.
type TechnicalsUseCase struct {
	data drepo.TechnicalData
}

func NewTechnicalsUseCase(data drepo.TechnicalData) *TechnicalsUseCase {
	return &TechnicalsUseCase{data: data}
}

func (uc *TechnicalsUseCase) Intraday(ctx context.Context, symbol string, interval drepo.Interval) ([]models.IntradayPoint, error) {
	if uc.data == nil {
		return nil, ErrTechnicalsDisabled
	}
	points, err := uc.data.Intraday(ctx, symbol, interval)
	if err != nil {
		return nil, fmt.Errorf("intraday %s: %w", symbol, err)
	}
	if points == nil {
		points = []models.IntradayPoint{}
	}
	return points, nil
}

func (uc *TechnicalsUseCase) Indicator(ctx context.Context, symbol string, ind drepo.Indicator) (models.IndicatorSeries, error) {
	if uc.data == nil {
		return models.IndicatorSeries{}, ErrTechnicalsDisabled
	}
	points, err := uc.data.Indicator(ctx, symbol, ind)
	if err != nil {
		return models.IndicatorSeries{}, fmt.Errorf("indicator %s %s: %w", ind, symbol, err)
	}
	if points == nil {
		points = []models.IndicatorPoint{}
	}
	return models.IndicatorSeries{
		Symbol:     symbol,
		Indicator:  string(ind),
		TimePeriod: ind.TimePeriod(),
		Data:       points,
	}, nil
}
