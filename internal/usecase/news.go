package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/util"
)

const (
	marketNewsLimit   = 20
	companyNewsLimit  = 10
	companyNewsWindow = 7
	newsCategory      = "general"
)

// NewsUseCase serves market and company headlines.
type NewsUseCase struct {
	data drepo.MarketData
	now  func() time.Time
}

func NewNewsUseCase(data drepo.MarketData) *NewsUseCase {
	return &NewsUseCase{data: data, now: time.Now}
}

func (uc *NewsUseCase) MarketNews(ctx context.Context) ([]models.NewsArticle, error) {
	news, err := uc.data.MarketNews(ctx, newsCategory)
	if err != nil {
		return nil, fmt.Errorf("market news: %w", err)
	}
	return capNews(news, marketNewsLimit), nil
}

// CompanyNews returns the symbol's headlines from the last seven days.
func (uc *NewsUseCase) CompanyNews(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	to := uc.now()
	from := util.ISODate(to.AddDate(0, 0, -companyNewsWindow))
	news, err := uc.data.CompanyNews(ctx, symbol, from, util.ISODate(to))
	if err != nil {
		return nil, fmt.Errorf("company news %s: %w", symbol, err)
	}
	return capNews(news, companyNewsLimit), nil
}

func capNews(news []models.NewsArticle, n int) []models.NewsArticle {
	if news == nil {
		return []models.NewsArticle{}
	}
	if len(news) > n {
		return news[:n]
	}
	return news
}
