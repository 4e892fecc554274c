// Package store persists tracker runs and their per frame tracked
// detections in a SQLite database.
package store
