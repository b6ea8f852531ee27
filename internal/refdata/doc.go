// Package refdata caches item and region display names.
//
// Names change essentially never, so the cache is read-through: lookups hit
// an in-memory map first, fall back to a loader (the upstream API) on a
// miss, and write resolved names back to the database so later processes
// start warm.
package refdata
