// Package render draws tracked detections, their ID labels and motion
// trails onto video frames with GoCV.
package render
