// Package fetch implements the Remote Data Fetcher.
//
// It is pure I/O: given a URL it returns raw bytes or an error, with no
// business logic. Retries with backoff happen inside a single call; callers
// never retry within an ingestion cycle. Paginated sources advertise their
// total page count in the X-Pages response header; pages are fetched
// concurrently and reassembled by explicit page index.
package fetch
