// Package types defines the configuration, record, result, and error types
// shared by the reels store, gateways, and their callers.
//
// Records are plain column-to-value maps. Gateways fully materialize every
// result before returning, so callers never hold a cursor or connection.
package types
