// Package forecast implements the price forecasting engine.
//
// Training fits one linear model per (item, region) pair from daily history
// and persists it as a msgpack artifact. Inference loads the artifact, builds
// the feature row for the most recent day, predicts the next day's average
// price, and derives a buy/sell band from recent volatility. Pairs without a
// usable model or enough history yield a null prediction with a reason rather
// than an error.
package forecast
