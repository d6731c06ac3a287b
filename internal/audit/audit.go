package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

// Account and authentication events recorded in the trail.
const (
	EventLoginSucceeded  = "login_succeeded"
	EventLoginFailed     = "login_failed"
	EventPasswordSet     = "password_set"
	EventUserActivated   = "user_activated"
	EventUserDeactivated = "user_deactivated"
	EventUserDeleted     = "user_deleted"
	EventRoleGranted     = "role_granted"
	EventRoleRevoked     = "role_revoked"
)

// Entry is a single audit record, stored as one JSON line.
type Entry struct {
	Event     string    `json:"event"`
	Username  string    `json:"username,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Trail is an append-only audit log backed by a single file. Writes are
// serialized and synced to disk so the trail survives a crash.
type Trail struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates (or appends to) the audit trail at filePath.
func Open(filePath string) (*Trail, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Trail{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends an entry to the trail. A zero timestamp is filled with the
// current time.
func (t *Trail) Record(entry Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit: failed to marshal entry",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	if _, err := t.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	// Force sync to disk (durability)
	if err := t.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Entries replays the whole trail from the start of the file. Unparseable
// lines are skipped.
func (t *Trail) Entries() ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the underlying file.
func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
