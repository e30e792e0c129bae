// Package store persists topics and investigation results in SQLite.
//
// The store is the single writer of topic verification state. Agents
// return TopicUpdate command values; ApplyUpdate validates the state
// transition and writes it atomically. verified_facts and source_plan
// live as JSON text columns but are (de)serialized only here; all
// other code operates on the typed structures.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// ErrIllegalTransition marks a TopicUpdate that would move a topic
// backwards (e.g. downgrade a verified topic).
var ErrIllegalTransition = errors.New("store: illegal verification transition")

// ErrNotFound marks a missing topic or investigation.
var ErrNotFound = errors.New("store: not found")

// Store handles persistence. Safe for concurrent readers; writes are
// serialized by an internal mutex so read-modify-write transition
// checks cannot race.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a new SQLite store at the given path. The database is
// created if it doesn't exist and migrations are applied.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent read access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		region TEXT,
		regional INTEGER DEFAULT 0,
		newsworthiness INTEGER DEFAULT 0,
		status TEXT NOT NULL,
		verification_status TEXT NOT NULL DEFAULT 'pending',
		source_count INTEGER DEFAULT 0,
		academic_citation_count INTEGER DEFAULT 0,
		verified_facts TEXT,
		source_plan TEXT,
		investigated INTEGER DEFAULT 0,
		investigation_confidence REAL DEFAULT 0,
		discovered_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_topics_status ON topics(status, verification_status);
	CREATE INDEX IF NOT EXISTS idx_topics_newsworthiness ON topics(newsworthiness DESC);

	CREATE TABLE IF NOT EXISTS investigations (
		id TEXT PRIMARY KEY,
		topic_id TEXT NOT NULL,
		investigated_at DATETIME NOT NULL,
		result TEXT NOT NULL,
		FOREIGN KEY (topic_id) REFERENCES topics(id)
	);

	CREATE INDEX IF NOT EXISTS idx_investigations_topic ON investigations(topic_id, investigated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveTopic inserts or replaces a topic row. Used by upstream intake
// and by tests; workflow mutation goes through ApplyUpdate.
func (s *Store) SaveTopic(ctx context.Context, t model.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, plan, err := marshalArtifacts(t.VerifiedFacts, t.SourcePlan)
	if err != nil {
		return err
	}

	if t.VerificationStatus == "" {
		t.VerificationStatus = model.VerificationPending
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO topics
		(id, title, description, category, region, regional, newsworthiness,
		 status, verification_status, source_count, academic_citation_count,
		 verified_facts, source_plan, investigated, investigation_confidence,
		 discovered_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE((SELECT created_at FROM topics WHERE id = ?), CURRENT_TIMESTAMP), CURRENT_TIMESTAMP)`,
		t.ID, t.Title, t.Description, t.Category, t.Region, boolInt(t.Regional),
		t.NewsworthinessScore, string(t.Status), string(t.VerificationStatus),
		t.SourceCount, t.AcademicCitationCount, facts, plan,
		boolInt(t.Investigated), t.InvestigationConfidence,
		timeOrNil(t.DiscoveredAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("save topic: %w", err)
	}
	return nil
}

// GetTopic fetches a single topic by id.
func (s *Store) GetTopic(ctx context.Context, id string) (model.Topic, error) {
	row := s.db.QueryRowContext(ctx, selectTopic+" WHERE id = ?", id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Topic{}, fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	return t, err
}

// PendingApproved returns approved topics awaiting primary
// verification, most newsworthy first.
func (s *Store) PendingApproved(ctx context.Context) ([]model.Topic, error) {
	rows, err := s.db.QueryContext(ctx, selectTopic+`
		WHERE status = ? AND verification_status IN (?, ?)
		ORDER BY newsworthiness DESC, id`,
		string(model.StatusApproved),
		string(model.VerificationPending), string(model.VerificationFailed))
	if err != nil {
		return nil, fmt.Errorf("query pending topics: %w", err)
	}
	return scanTopics(rows)
}

// EscalationPolicy carries the configurable re-investigation rules.
type EscalationPolicy struct {
	ImportanceFloor int
	MinSources      int
	Reinvestigate   bool
	Cooldown        time.Duration
}

// EligibleForEscalation lists topics matching the escalation trigger
// predicate: under-evidenced, approved, important enough, and not yet
// investigated (unless re-investigation is enabled and the cooldown
// has elapsed).
func (s *Store) EligibleForEscalation(ctx context.Context, policy EscalationPolicy) ([]model.Topic, error) {
	rows, err := s.db.QueryContext(ctx, selectTopic+`
		WHERE status = ?
		  AND verification_status IN (?, ?)
		  AND source_count < ?
		  AND newsworthiness >= ?
		ORDER BY newsworthiness DESC, id`,
		string(model.StatusApproved),
		string(model.VerificationInsufficient), string(model.VerificationUnverified),
		policy.MinSources, policy.ImportanceFloor)
	if err != nil {
		return nil, fmt.Errorf("query eligible topics: %w", err)
	}
	topics, err := scanTopics(rows)
	if err != nil {
		return nil, err
	}

	eligible := topics[:0]
	for _, t := range topics {
		if !t.Investigated {
			eligible = append(eligible, t)
			continue
		}
		if !policy.Reinvestigate || policy.Cooldown <= 0 {
			continue
		}
		last, err := s.LatestInvestigation(ctx, t.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				eligible = append(eligible, t)
			}
			continue
		}
		if time.Since(last.InvestigatedAt) >= policy.Cooldown {
			eligible = append(eligible, t)
		}
	}
	return eligible, nil
}

// ApplyUpdate applies a TopicUpdate command. It is the only mutation
// path for verification state and enforces forward-only transitions.
func (s *Store) ApplyUpdate(ctx context.Context, u model.TopicUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetTopic(ctx, u.TopicID)
	if err != nil {
		return err
	}

	if u.VerificationStatus != "" && !current.VerificationStatus.CanTransition(u.VerificationStatus) {
		return fmt.Errorf("%w: %s -> %s (topic %s)",
			ErrIllegalTransition, current.VerificationStatus, u.VerificationStatus, u.TopicID)
	}

	next := current
	if u.VerificationStatus != "" {
		next.VerificationStatus = u.VerificationStatus
	}
	if u.SourceCount != nil {
		next.SourceCount = *u.SourceCount
	}
	if u.AcademicCitationCount != nil {
		next.AcademicCitationCount = *u.AcademicCitationCount
	}
	if u.VerifiedFacts != nil {
		next.VerifiedFacts = u.VerifiedFacts
	}
	if u.SourcePlan != nil {
		next.SourcePlan = u.SourcePlan
	}
	if u.Investigated != nil {
		next.Investigated = *u.Investigated
	}
	if u.InvestigationConfidence != nil {
		next.InvestigationConfidence = *u.InvestigationConfidence
	}

	facts, plan, err := marshalArtifacts(next.VerifiedFacts, next.SourcePlan)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE topics SET
			verification_status = ?,
			source_count = ?,
			academic_citation_count = ?,
			verified_facts = ?,
			source_plan = ?,
			investigated = ?,
			investigation_confidence = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(next.VerificationStatus), next.SourceCount, next.AcademicCitationCount,
		facts, plan, boolInt(next.Investigated), next.InvestigationConfidence, u.TopicID)
	if err != nil {
		return fmt.Errorf("apply update: %w", err)
	}
	return nil
}

// SaveInvestigation records one escalation attempt.
func (s *Store) SaveInvestigation(ctx context.Context, res model.InvestigationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal investigation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO investigations (id, topic_id, investigated_at, result)
		VALUES (?, ?, ?, ?)`,
		res.ID, res.TopicID, res.InvestigatedAt.UTC(), string(payload))
	if err != nil {
		return fmt.Errorf("save investigation: %w", err)
	}
	return nil
}

// LatestInvestigation fetches the most recent investigation for a topic.
func (s *Store) LatestInvestigation(ctx context.Context, topicID string) (model.InvestigationResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT result FROM investigations
		WHERE topic_id = ?
		ORDER BY investigated_at DESC
		LIMIT 1`, topicID)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InvestigationResult{}, fmt.Errorf("investigation for topic %s: %w", topicID, ErrNotFound)
		}
		return model.InvestigationResult{}, fmt.Errorf("query investigation: %w", err)
	}

	var res model.InvestigationResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return model.InvestigationResult{}, fmt.Errorf("unmarshal investigation: %w", err)
	}
	return res, nil
}

const selectTopic = `
	SELECT id, title, description, category, region, regional, newsworthiness,
	       status, verification_status, source_count, academic_citation_count,
	       verified_facts, source_plan, investigated, investigation_confidence,
	       discovered_at, created_at, updated_at
	FROM topics`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (model.Topic, error) {
	var (
		t            model.Topic
		regional     int
		investigated int
		status       string
		verification string
		facts        sql.NullString
		plan         sql.NullString
		discovered   sql.NullTime
		created      sql.NullTime
		updated      sql.NullTime
	)

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Region,
		&regional, &t.NewsworthinessScore, &status, &verification,
		&t.SourceCount, &t.AcademicCitationCount, &facts, &plan,
		&investigated, &t.InvestigationConfidence, &discovered, &created, &updated)
	if err != nil {
		return model.Topic{}, err
	}

	t.Regional = regional != 0
	t.Investigated = investigated != 0
	t.Status = model.TopicStatus(status)
	t.VerificationStatus = model.VerificationStatus(verification)
	if discovered.Valid {
		t.DiscoveredAt = discovered.Time
	}
	if created.Valid {
		t.CreatedAt = created.Time
	}
	if updated.Valid {
		t.UpdatedAt = updated.Time
	}

	if facts.Valid && facts.String != "" {
		var vf model.VerifiedFacts
		if err := json.Unmarshal([]byte(facts.String), &vf); err != nil {
			return model.Topic{}, fmt.Errorf("unmarshal verified_facts: %w", err)
		}
		t.VerifiedFacts = &vf
	}
	if plan.Valid && plan.String != "" {
		var sp model.SourcePlan
		if err := json.Unmarshal([]byte(plan.String), &sp); err != nil {
			return model.Topic{}, fmt.Errorf("unmarshal source_plan: %w", err)
		}
		t.SourcePlan = &sp
	}

	return t, nil
}

func scanTopics(rows *sql.Rows) ([]model.Topic, error) {
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func marshalArtifacts(facts *model.VerifiedFacts, plan *model.SourcePlan) (sql.NullString, sql.NullString, error) {
	var f, p sql.NullString
	if facts != nil {
		raw, err := json.Marshal(facts)
		if err != nil {
			return f, p, fmt.Errorf("marshal verified_facts: %w", err)
		}
		f = sql.NullString{String: string(raw), Valid: true}
	}
	if plan != nil {
		raw, err := json.Marshal(plan)
		if err != nil {
			return f, p, fmt.Errorf("marshal source_plan: %w", err)
		}
		p = sql.NullString{String: string(raw), Valid: true}
	}
	return f, p, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
