// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/Pushkar-sharma02/e-Vote-Backend/models"
	"github.com/Pushkar-sharma02/e-Vote-Backend/store"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "voting"

const (
	singleAdminIndex = "uniq_single_admin"
	indexTimeout     = 10 * time.Second
)

// Store implements store.Store on MongoDB. RecordVote needs a replica set
// or sharded cluster, since it runs in a multi-document transaction.
type Store struct {
	client     *mongo.Client
	database   *mongo.Database
	users      *mongo.Collection
	candidates *mongo.Collection
}

var _ store.Store = (*Store)(nil)

type userDoc struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Age              int       `bson:"age"`
	Email            string    `bson:"email,omitempty"`
	Mobile           string    `bson:"mobile,omitempty"`
	Address          string    `bson:"address"`
	AadharCardNumber string    `bson:"aadharCardNumber"`
	Password         string    `bson:"password"`
	Role             string    `bson:"role"`
	IsVoted          bool      `bson:"isVoted"`
	CreatedAt        time.Time `bson:"createdAt"`
}

type voteDoc struct {
	User    string    `bson:"user"`
	VotedAt time.Time `bson:"votedAt"`
}

type candidateDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Party        string    `bson:"party"`
	Age          int       `bson:"age"`
	ElectionType string    `bson:"electionType"`
	Votes        []voteDoc `bson:"votes"`
	VoteCount    int       `bson:"voteCount"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// Open connects to uri, pings the primary and creates the indexes. An
// empty database falls back to the one in the URI, then DefaultDatabase.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		cs, err := connstring.ParseAndValidate(uri)
		if err != nil {
			return nil, fmt.Errorf("parsing mongodb URL: %w", err)
		}
		database = cs.Database
	}
	if database == "" {
		database = DefaultDatabase
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetSocketTimeout(45 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &Store{client: client}
	s.useDatabase(database)

	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) useDatabase(name string) {
	s.database = s.client.Database(name)
	s.users = s.database.Collection("users")
	s.candidates = s.database.Collection("candidates")
}

// EnsureIndexes creates the unique indexes the store relies on. Safe to call
// repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "aadharCardNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetName(singleAdminIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": models.RoleAdmin}),
		},
	})
	if err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}

	_, err = s.candidates.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "party", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "electionType", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "voteCount", Value: -1}, {Key: "_id", Value: 1}},
		},
		{
			// A voter may appear in at most one candidate's record.
			Keys: bson.D{{Key: "votes.user", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"votes.user": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return fmt.Errorf("creating candidate indexes: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Users

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.users.InsertOne(ctx, userDoc{
		ID:               u.ID,
		Name:             u.Name,
		Age:              u.Age,
		Email:            u.Email,
		Mobile:           u.Mobile,
		Address:          u.Address,
		AadharCardNumber: u.AadharCardNumber,
		Password:         u.PasswordHash,
		Role:             u.Role,
		IsVoted:          u.IsVoted,
		CreatedAt:        u.CreatedAt.UTC(),
	})
	if err != nil {
		return translate(fmt.Errorf("inserting user: %w", err))
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) GetUserByAadhar(ctx context.Context, aadhar string) (models.User, error) {
	return s.findUser(ctx, bson.M{"aadharCardNumber": aadhar})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, store.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"role": models.RoleAdmin}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking admin: %w", err)
	}
	return n > 0, nil
}

// Candidates

var withoutVotes = bson.M{"votes": 0}

func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := s.candidates.InsertOne(ctx, candidateDoc{
		ID:           c.ID,
		Name:         c.Name,
		Party:        c.Party,
		Age:          c.Age,
		ElectionType: c.ElectionType,
		Votes:        []voteDoc{},
		CreatedAt:    c.CreatedAt.UTC(),
	})
	if err != nil {
		return translate(fmt.Errorf("inserting candidate: %w", err))
	}
	return nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	var doc candidateDoc
	err := s.candidates.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutVotes)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Candidate{}, store.ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("finding candidate: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) CandidateVotes(ctx context.Context, id string) ([]models.Vote, error) {
	var doc candidateDoc
	err := s.candidates.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"votes": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding votes: %w", err)
	}

	votes := make([]models.Vote, 0, len(doc.Votes))
	for _, v := range doc.Votes {
		votes = append(votes, models.Vote{VoterID: v.User, VotedAt: v.VotedAt.UTC()})
	}
	sort.SliceStable(votes, func(i, j int) bool {
		if !votes[i].VotedAt.Equal(votes[j].VotedAt) {
			return votes[i].VotedAt.Before(votes[j].VotedAt)
		}
		return votes[i].VoterID < votes[j].VoterID
	})
	return votes, nil
}

func (s *Store) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	res, err := s.candidates.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"name":         c.Name,
		"party":        c.Party,
		"age":          c.Age,
		"electionType": c.ElectionType,
	}})
	if err != nil {
		return translate(fmt.Errorf("updating candidate: %w", err))
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id string) (models.Candidate, error) {
	var doc candidateDoc
	err := s.candidates.FindOneAndDelete(ctx, bson.M{"_id": id}, options.FindOneAndDelete().SetProjection(withoutVotes)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Candidate{}, store.ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("deleting candidate: %w", err)
	}
	return doc.model(), nil
}

func (s *Store) ListCandidates(ctx context.Context, electionType string) ([]models.Candidate, error) {
	return s.findCandidates(ctx, electionType, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) Tally(ctx context.Context, electionType string) ([]models.Candidate, error) {
	return s.findCandidates(ctx, electionType, bson.D{{Key: "voteCount", Value: -1}, {Key: "_id", Value: 1}})
}

func (s *Store) findCandidates(ctx context.Context, electionType string, sortBy bson.D) ([]models.Candidate, error) {
	filter := bson.M{}
	if electionType != "" {
		filter["electionType"] = electionType
	}

	cur, err := s.candidates.Find(ctx, filter, options.Find().SetSort(sortBy).SetProjection(withoutVotes))
	if err != nil {
		return nil, fmt.Errorf("finding candidates: %w", err)
	}
	defer cur.Close(ctx)

	var docs []candidateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(docs))
	for _, d := range docs {
		candidates = append(candidates, d.model())
	}
	return candidates, nil
}

// Ballots

func (s *Store) RecordVote(ctx context.Context, voterID, candidateID string, votedAt time.Time) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.users.UpdateOne(sc,
			bson.M{"_id": voterID, "isVoted": false, "role": models.RoleVoter},
			bson.M{"$set": bson.M{"isVoted": true}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, store.ErrAlreadyVoted
		}

		res, err = s.candidates.UpdateOne(sc,
			bson.M{"_id": candidateID},
			bson.M{
				"$push": bson.M{"votes": voteDoc{User: voterID, VotedAt: votedAt.UTC()}},
				"$inc":  bson.M{"voteCount": 1},
			},
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, store.ErrAlreadyVoted
			}
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, store.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyVoted) || errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("recording vote: %w", err)
	}
	return nil
}

// Helpers

func (d userDoc) model() models.User {
	return models.User{
		ID:               d.ID,
		Name:             d.Name,
		Age:              d.Age,
		Email:            d.Email,
		Mobile:           d.Mobile,
		Address:          d.Address,
		AadharCardNumber: d.AadharCardNumber,
		PasswordHash:     d.Password,
		Role:             d.Role,
		IsVoted:          d.IsVoted,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

func (d candidateDoc) model() models.Candidate {
	return models.Candidate{
		ID:           d.ID,
		Name:         d.Name,
		Party:        d.Party,
		Age:          d.Age,
		ElectionType: d.ElectionType,
		VoteCount:    d.VoteCount,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func translate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), singleAdminIndex) {
		return fmt.Errorf("%w: %v", store.ErrAdminExists, err)
	}
	return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
}
