package model

import "time"

// -----------------------------------------------------------------------------
// Ingested Types
// -----------------------------------------------------------------------------

// MarketOrder is a live order on a regional market.
//
// Rows are owned by the ingestion reconciler: the snapshot flow replaces the
// table wholesale, the polled flow upserts by OrderID and evicts rows whose
// RetrievedAt predates the cycle start within successfully polled regions.
type MarketOrder struct {
	OrderID      int64     // Primary key (globally unique)
	TypeID       int64     // Item type
	RegionID     int64     // Market region
	LocationID   int64     // Station or structure
	SystemID     int64     // Solar system
	VolumeTotal  int64     // Quantity at issue
	VolumeRemain int64     // Quantity still on the book
	MinVolume    int64     // Minimum fill quantity
	Price        float64   // Unit price
	IsBuyOrder   bool      // true = bid, false = ask
	Duration     int       // Days the order stays listed
	Issued       time.Time // Order issue time
	Range        string    // Order range ("region", "station", jump count)
	RetrievedAt  time.Time // Freshness stamp set by the ingestion cycle
}

// HistoryRecord is one day of aggregated trading for (item, region).
//
// Unique on (TypeID, RegionID, Date); a later fetch of the same date
// overwrites the row.
type HistoryRecord struct {
	TypeID       int64     // Item type
	RegionID     int64     // Market region
	Date         time.Time // Calendar day (UTC midnight)
	Average      float64   // Average traded price
	Highest      float64   // Daily high
	Lowest       float64   // Daily low
	OrderCount   int64     // Orders filled
	Volume       int64     // Units traded
	LastModified time.Time // Source publish time
}

// -----------------------------------------------------------------------------
// Derived Types
// -----------------------------------------------------------------------------

// AnalysisResult is the per-(item, region) profitability snapshot.
//
// Fully recomputed each analysis run; reproducible from orders + history at
// any time, so losing it is a staleness event, not data loss.
type AnalysisResult struct {
	TypeID                 int64
	RegionID               int64
	AvgBuyPrice            float64 // Top-decile mean of buy orders
	AvgSellPrice           float64 // Bottom-decile mean of sell orders
	ProfitPerUnit          float64
	ROIPercent             float64
	AvgDailyVolume         float64
	Volatility30D          float64 // Sample std dev of daily average price
	TrendDirection         int     // -1, 0, +1
	PriceVolumeCorrelation float64 // Pearson, 0 when undefined
	ProfitScore            float64 // ROI * log1p(volume)
	ComputedAt             time.Time
}

// Prediction is the forecast output for one (item, region) pair.
//
// A nil BuyPrice/SellPrice with a non-empty Reason is the defined outcome for
// missing models or insufficient history; it is not an error.
type Prediction struct {
	TypeID     int64
	RegionID   int64
	BuyPrice   *float64  // Predicted mid minus half the 7d volatility
	SellPrice  *float64  // Predicted mid plus half the 7d volatility
	Date       time.Time // Day being predicted (last history date + 1)
	Confidence *float64  // Held-out fit score recorded at training time
	Reason     string    // Why prices are nil, empty on success
}

// -----------------------------------------------------------------------------
// Reference Data
// -----------------------------------------------------------------------------

// Region is a named market region.
type Region struct {
	RegionID int64
	Name     string
}

// Item is a named tradeable type.
type Item struct {
	TypeID int64
	Name   string
}
