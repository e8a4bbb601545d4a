package usecase

import "MarketPulse/internal/domain/models"

// Boards quoted by the dashboard.
var (
	IndexBoard = []models.Instrument{
		{Symbol: "MES=F", Name: "Micro E-mini S&P (MES)", Futures: true},
		{Symbol: "MNQ=F", Name: "Micro E-mini NASDAQ (MNQ)", Futures: true},
		{Symbol: "ES=F", Name: "E-mini S&P 500 (ES)", Futures: true},
		{Symbol: "NQ=F", Name: "E-mini NASDAQ (NQ)", Futures: true},
		{Symbol: "SPY", Name: "S&P 500 (SPY)"},
		{Symbol: "QQQ", Name: "NASDAQ 100 (QQQ)"},
		{Symbol: "DIA", Name: "Dow Jones (DIA)"},
		{Symbol: "IWM", Name: "Russell 2000 (IWM)"},
		{Symbol: "VIX", Name: "VIX Volatility"},
	}

	SectorBoard = []models.Instrument{
		{Symbol: "XLK", Name: "Technology"},
		{Symbol: "XLF", Name: "Financials"},
		{Symbol: "XLV", Name: "Healthcare"},
		{Symbol: "XLE", Name: "Energy"},
		{Symbol: "XLI", Name: "Industrials"},
		{Symbol: "XLC", Name: "Communications"},
		{Symbol: "XLY", Name: "Consumer Discretionary"},
		{Symbol: "XLP", Name: "Consumer Staples"},
		{Symbol: "XLU", Name: "Utilities"},
		{Symbol: "XLRE", Name: "Real Estate"},
		{Symbol: "XLB", Name: "Materials"},
	}

	GlobalBoard = []models.Instrument{
		{Symbol: "EWU", Name: "FTSE 100 (UK)", Region: "London"},
		{Symbol: "EWJ", Name: "Nikkei 225 (Japan)", Region: "Tokyo"},
		{Symbol: "FXI", Name: "Hang Seng (HK)", Region: "Hong Kong"},
		{Symbol: "MCHI", Name: "Shanghai (China)", Region: "Shanghai"},
		{Symbol: "EWG", Name: "DAX (Germany)", Region: "Frankfurt"},
		{Symbol: "EFA", Name: "Intl Developed", Region: "Global"},
	}

	CommodityBoard = []models.Instrument{
		{Symbol: "GLD", Name: "Gold", Unit: "oz"},
		{Symbol: "USO", Name: "Crude Oil", Unit: "bbl"},
		{Symbol: "UNG", Name: "Natural Gas", Unit: "mmBtu"},
		{Symbol: "SLV", Name: "Silver", Unit: "oz"},
	}
)

// MoverUniverse is the watch list ranked by the movers board.
var MoverUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD", "NFLX", "CRM",
	"INTC", "PYPL", "COIN", "UBER", "ABNB", "PLTR", "SNAP", "ROKU", "SQ", "SHOP",
}

var megaCaps = map[string]struct{}{
	"AAPL": {}, "MSFT": {}, "GOOGL": {}, "GOOG": {}, "AMZN": {},
	"NVDA": {}, "META": {}, "TSLA": {}, "AVGO": {}, "JPM": {},
	"V": {}, "MA": {}, "UNH": {}, "HD": {}, "COST": {},
	"NFLX": {}, "CRM": {}, "AMD": {}, "ADBE": {}, "LIN": {},
}

// IsMegaCap reports whether symbol is on the mega-cap allow-list.
func IsMegaCap(symbol string) bool {
	_, ok := megaCaps[symbol]
	return ok
}

// futuresProxies maps index futures to the ETF quoted when the feed has no futures data.
var futuresProxies = map[string]string{
	"MES=F": "SPY",
	"ES=F":  "SPY",
	"MNQ=F": "QQQ",
	"NQ=F":  "QQQ",
}

// fedSchedule is the published FOMC calendar plus announced speeches.
var fedSchedule = []models.FedEvent{
	{Date: "2025-01-29", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-02-10", Name: "Federal Reserve Chair Powell Speech", Type: "speech", Importance: "high"},
	{Date: "2025-03-18", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-03-21", Name: "FOMC Minutes Release", Type: "minutes", Importance: "medium"},
	{Date: "2025-04-15", Name: "Federal Reserve Vice Chair Speech", Type: "speech", Importance: "medium"},
	{Date: "2025-05-06", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-06-17", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-07-16", Name: "FOMC Minutes Release", Type: "minutes", Importance: "medium"},
	{Date: "2025-07-29", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-09-16", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-10-15", Name: "Federal Reserve Chair Powell Speech", Type: "speech", Importance: "high"},
	{Date: "2025-11-05", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2025-12-16", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2026-01-27", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2026-03-17", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2026-05-05", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
	{Date: "2026-06-16", Name: "FOMC Meeting Decision", Type: "rate_decision", Importance: "high"},
}
