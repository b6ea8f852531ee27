// Package analysis implements the Profitability Analysis Engine.
//
// Per region, each item present in both the live order book and the history
// window gets spread-based price estimates, volume and volatility, a trend
// classification, a price/volume correlation, and a composite profit score.
// The ranked result set replaces the stored snapshot for that region.
//
// Price estimate convention: the buy estimate is the mean of the top decile
// of buy orders (what it costs to outbid the competition) and the sell
// estimate is the mean of the bottom decile of sell orders (what it takes to
// undercut it).
package analysis
