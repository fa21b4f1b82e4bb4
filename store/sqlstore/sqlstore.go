// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Pushkar-sharma02/e-Vote-Backend/db"
	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const pingTimeout = 5 * time.Second

// Store implements store.Store over database/sql.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open connection pool. The schema must already exist.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Open connects with the named driver, verifies the connection and creates
// the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; one connection serializes
		// transactions instead of failing them with SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return New(conn), nil
}

// sqliteDSN turns on foreign keys for every connection the pool opens.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Users

const userColumns = `id, name, age, email, mobile, address, aadhar_card_number, password_hash, role, is_voted, created_at`

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.Name, u.Age, nullString(u.Email), nullString(u.Mobile), u.Address,
		u.AadharCardNumber, u.PasswordHash, u.Role, u.IsVoted, u.CreatedAt.UTC())
	if err != nil {
		return translate(fmt.Errorf("inserting user: %w", err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByAadhar(ctx context.Context, aadhar string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE aadhar_card_number = $1`, aadhar)
	return scanUser(row)
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return expectOneRow(res)
}

func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)
	`, models.RoleAdmin).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking admin: %w", err)
	}
	return exists, nil
}

// Candidates

const candidateColumns = `id, name, party, age, election_type, vote_count, created_at`

func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Party, c.Age, c.ElectionType, 0, c.CreatedAt.UTC())
	if err != nil {
		return translate(fmt.Errorf("inserting candidate: %w", err))
	}
	return nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	return scanCandidate(row)
}

func (s *Store) CandidateVotes(ctx context.Context, id string) ([]models.Vote, error) {
	if _, err := s.GetCandidate(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT voter_id, voted_at FROM votes
		WHERE candidate_id = $1
		ORDER BY voted_at, voter_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.VoterID, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("scanning vote: %w", err)
		}
		v.VotedAt = v.VotedAt.UTC()
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *Store) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidates SET name = $1, party = $2, age = $3, election_type = $4
		WHERE id = $5
	`, c.Name, c.Party, c.Age, c.ElectionType, c.ID)
	if err != nil {
		return translate(fmt.Errorf("updating candidate: %w", err))
	}
	return expectOneRow(res)
}

func (s *Store) DeleteCandidate(ctx context.Context, id string) (models.Candidate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE candidate_id = $1`, id); err != nil {
		return models.Candidate{}, fmt.Errorf("deleting votes: %w", err)
	}

	row := tx.QueryRowContext(ctx, `DELETE FROM candidates WHERE id = $1 RETURNING `+candidateColumns, id)
	c, err := scanCandidate(row)
	if err != nil {
		return models.Candidate{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Candidate{}, fmt.Errorf("committing delete: %w", err)
	}
	return c, nil
}

func (s *Store) ListCandidates(ctx context.Context, electionType string) ([]models.Candidate, error) {
	return s.queryCandidates(ctx, electionType, `created_at, id`)
}

func (s *Store) Tally(ctx context.Context, electionType string) ([]models.Candidate, error) {
	return s.queryCandidates(ctx, electionType, `vote_count DESC, id`)
}

func (s *Store) queryCandidates(ctx context.Context, electionType, orderBy string) ([]models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var args []any
	if electionType != "" {
		query += ` WHERE election_type = $1`
		args = append(args, electionType)
	}
	query += ` ORDER BY ` + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// Ballots

func (s *Store) RecordVote(ctx context.Context, voterID, candidateID string, votedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Admission gate: the row lock taken here serializes concurrent
	// submissions for the same voter.
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET is_voted = TRUE
		WHERE id = $1 AND is_voted = FALSE AND role = $2
	`, voterID, models.RoleVoter)
	if err != nil {
		return fmt.Errorf("marking voter: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("marking voter: %w", err)
	} else if n == 0 {
		return store.ErrAlreadyVoted
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE candidates SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		return fmt.Errorf("incrementing count: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (candidate_id, voter_id, voted_at) VALUES ($1, $2, $3)
	`, candidateID, voterID, votedAt.UTC())
	if err != nil {
		if errors.Is(translate(err), store.ErrDuplicate) {
			return store.ErrAlreadyVoted
		}
		return fmt.Errorf("inserting vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vote: %w", err)
	}
	return nil
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var email, mobile sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Age, &email, &mobile, &u.Address,
		&u.AadharCardNumber, &u.PasswordHash, &u.Role, &u.IsVoted, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, store.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("scanning user: %w", err)
	}
	u.Email = email.String
	u.Mobile = mobile.String
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func scanCandidate(row scanner) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Party, &c.Age, &c.ElectionType, &c.VoteCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, store.ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("scanning candidate: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// translate maps unique-constraint violations from either driver onto the
// store sentinels and passes every other error through.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if pqErr.Constraint == db.SingleAdminIndex {
			return fmt.Errorf("%w: %v", store.ErrAdminExists, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && isSQLiteUnique(liteErr) {
		if strings.Contains(liteErr.Error(), "users.role") {
			return fmt.Errorf("%w: %v", store.ErrAdminExists, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	return err
}

func isSQLiteUnique(err *sqlite.Error) bool {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), "UNIQUE")
}
