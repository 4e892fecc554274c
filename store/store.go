package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-bytetrack/tracker"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		tracker TEXT NOT NULL,
		total_frames INTEGER NOT NULL,
		avg_performance_ms REAL,
		params_yaml TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tracked_detections (
		run_id TEXT NOT NULL,
		frame INTEGER NOT NULL,
		det_index INTEGER NOT NULL,
		x1 REAL NOT NULL,
		y1 REAL NOT NULL,
		x2 REAL NOT NULL,
		y2 REAL NOT NULL,
		tracker_id INTEGER NOT NULL,
		PRIMARY KEY (run_id, frame, det_index),
		FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Run is one pass of the tracker over a detections file
type Run struct {
	RunID            string
	SourceFile       string
	Tracker          string
	TotalFrames      int
	AvgPerformanceMs *float64
	// ParamsYAML is the tracker configuration the run was made with
	ParamsYAML string
	CreatedAt  int64
}

// Store is a SQLite backed record of tracker runs
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// a single connection keeps the pragmas applied to every statement
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun records a new run.  If RunID is empty a UUID is generated, the
// run ID is returned
func (s *Store) CreateRun(run *Run) (string, error) {

	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}

	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var avg any

	if run.AvgPerformanceMs != nil {
		avg = *run.AvgPerformanceMs
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (
			run_id, source_file, tracker, total_frames,
			avg_performance_ms, params_yaml, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourceFile, run.Tracker, run.TotalFrames,
		avg, run.ParamsYAML, run.CreatedAt,
	)

	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return run.RunID, nil
}

// SetAvgPerformance records the average tracker update time of a finished
// run
func (s *Store) SetAvgPerformance(runID string, ms float64) error {

	res, err := s.db.Exec(`UPDATE runs SET avg_performance_ms = ? WHERE run_id = ?`,
		ms, runID)

	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run %s: %w", runID, sql.ErrNoRows)
	}

	return nil
}

// InsertFrame records the tracked detections of one frame in their output
// order
func (s *Store) InsertFrame(runID string, frame int, dets []tracker.TrackedDetection) error {

	tx, err := s.db.Begin()

	if err != nil {
		return fmt.Errorf("begin frame %d: %w", frame, err)
	}

	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tracked_detections (
			run_id, frame, det_index, x1, y1, x2, y2, tracker_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	if err != nil {
		return fmt.Errorf("prepare frame %d: %w", frame, err)
	}

	defer stmt.Close()

	for i, det := range dets {
		_, err := stmt.Exec(runID, frame, i,
			float64(det.Box[0]), float64(det.Box[1]),
			float64(det.Box[2]), float64(det.Box[3]), det.TrackerID)

		if err != nil {
			return fmt.Errorf("insert frame %d detection %d: %w", frame, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit frame %d: %w", frame, err)
	}

	return nil
}

// Run returns a single run by ID
func (s *Store) Run(runID string) (*Run, error) {

	row := s.db.QueryRow(`
		SELECT run_id, source_file, tracker, total_frames,
		       avg_performance_ms, params_yaml, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	run, err := scanRun(row)

	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	return run, nil
}

// Runs returns all runs, most recent first
func (s *Store) Runs() ([]*Run, error) {

	rows, err := s.db.Query(`
		SELECT run_id, source_file, tracker, total_frames,
		       avg_performance_ms, params_yaml, created_at
		FROM runs
		ORDER BY created_at DESC`)

	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run, err := scanRun(rows)

		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Frames returns the tracked detections of a run, one entry per frame of
// the run including frames with no detections
func (s *Store) Frames(runID string) ([][]tracker.TrackedDetection, error) {

	run, err := s.Run(runID)

	if err != nil {
		return nil, err
	}

	frames := make([][]tracker.TrackedDetection, run.TotalFrames)

	for i := range frames {
		frames[i] = []tracker.TrackedDetection{}
	}

	rows, err := s.db.Query(`
		SELECT frame, x1, y1, x2, y2, tracker_id
		FROM tracked_detections
		WHERE run_id = ?
		ORDER BY frame, det_index`, runID)

	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		var frame int
		var det tracker.TrackedDetection

		err := rows.Scan(&frame, &det.Box[0], &det.Box[1], &det.Box[2],
			&det.Box[3], &det.TrackerID)

		if err != nil {
			return nil, fmt.Errorf("scan detection: %w", err)
		}

		if frame < 0 || frame >= len(frames) {
			return nil, fmt.Errorf("run %s has detection for frame %d outside of %d frames",
				runID, frame, len(frames))
		}

		frames[frame] = append(frames[frame], det)
	}

	return frames, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {

	var run Run
	var avg sql.NullFloat64
	var params sql.NullString

	err := row.Scan(&run.RunID, &run.SourceFile, &run.Tracker, &run.TotalFrames,
		&avg, &params, &run.CreatedAt)

	if err != nil {
		return nil, err
	}

	if avg.Valid {
		run.AvgPerformanceMs = &avg.Float64
	}

	run.ParamsYAML = params.String

	return &run, nil
}
