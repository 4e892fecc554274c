// Package dataset reads and writes the JSON documents exchanged with the
// detector and the reference tracker: per frame detections going in and per
// frame tracked detections coming out.
package dataset
