/*
Package tracker implements the ByteTrack multi-object tracker.

Each tracked object is modelled by an STrack holding a constant velocity
Kalman filter state over its bounding box corners.  Every frame the
BYTETracker predicts all tracks forward, associates them with the high
confidence detections by IoU, gives the remaining tracks a second chance
against the low confidence detections, spawns new tracks from unmatched high
confidence detections and drops tracks that have been lost for too long.

Association is solved optimally with LinearSumAssignment, a shortest
augmenting path solver for rectangular cost matrices.

A BYTETracker is not safe for concurrent use.
*/
package tracker
