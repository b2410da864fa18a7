// Package queue persists which games have already been posted so a
// restart mid-day does not repost them. State lives in two small files
// under the data directory: a JSON array of processed game IDs and the
// last date the bot ran.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mlb-lineup-bot/internal/types"
)

const (
	processedFile = "processed_games.json"
	lastDateFile  = "last_processed_date.txt"
)

type Queue struct {
	mu        sync.Mutex
	dir       string
	processed map[int]bool
}

// Open loads the processed set from dir, creating the directory on
// first run. A corrupt state file starts fresh rather than failing:
// the worst case is one repost.
func Open(dir string) (*Queue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	q := &Queue{dir: dir, processed: map[int]bool{}}

	raw, err := os.ReadFile(filepath.Join(dir, processedFile))
	if err != nil {
		if os.IsNotExist(err) {
			return q, nil
		}
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		return q, nil
	}
	for _, id := range ids {
		q.processed[id] = true
	}
	return q, nil
}

func (q *Queue) IsProcessed(gameID int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processed[gameID]
}

// MarkProcessed records a game and persists the set immediately, so
// the file is always current if the process dies.
func (q *Queue) MarkProcessed(gameID int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.processed[gameID] {
		return nil
	}
	q.processed[gameID] = true
	return q.save()
}

// Unprocessed filters a day's schedule down to games not yet posted.
func (q *Queue) Unprocessed(schedule []types.ScheduleEntry) []types.ScheduleEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []types.ScheduleEntry
	for _, game := range schedule {
		if !q.processed[game.GameID] {
			out = append(out, game)
		}
	}
	return out
}

func (q *Queue) ProcessedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.processed)
}

// Clear resets the processed set, on disk included.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processed = map[int]bool{}
	return q.save()
}

// CheckDateTransition compares today against the persisted last run
// date and, on a new calendar day, clears the processed set. Returns
// true when the day rolled over; the caller clears its caches too.
func (q *Queue) CheckDateTransition(now time.Time) (bool, error) {
	today := now.Format("2006-01-02")
	path := filepath.Join(q.dir, lastDateFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, err
		}
		// First run: record today, nothing to reset.
		return false, os.WriteFile(path, []byte(today), 0o644)
	}

	last := strings.TrimSpace(string(raw))
	if last == today {
		return false, nil
	}
	if err := q.Clear(); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, []byte(today), 0o644)
}

// save writes the set as a JSON array. Caller holds the lock.
func (q *Queue) save() error {
	ids := make([]int, 0, len(q.processed))
	for id := range q.processed {
		ids = append(ids, id)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(q.dir, processedFile), raw, 0o644)
}
