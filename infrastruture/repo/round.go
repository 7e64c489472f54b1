package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/maze-craze/game"
	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRoundNotFound is returned when no round has the requested id.
var ErrRoundNotFound = errors.New("round not found")

// roundDocument is the BSON version of a round for database storage.
type roundDocument struct {
	ID         string    `bson:"_id"`
	Winner     string    `bson:"winner"`
	MazeSize   int       `bson:"mazeSize"`
	StartedAt  time.Time `bson:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt"`
	Moves      int       `bson:"moves"`
}

func toDocument(r game.Round) roundDocument {
	return roundDocument{
		ID:         r.ID.String(),
		Winner:     r.Winner,
		MazeSize:   r.MazeSize,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Moves:      r.Moves,
	}
}

func (d roundDocument) toRound() (game.Round, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return game.Round{}, fmt.Errorf("round %q: %w", d.ID, err)
	}
	return game.Round{
		ID:         id,
		Winner:     d.Winner,
		MazeSize:   d.MazeSize,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Moves:      d.Moves,
	}, nil
}

// RoundRepo handles the persistence of finished rounds.
type RoundRepo struct {
	collection *mongo.Collection
}

var _ i.RoundRepo = &RoundRepo{}

// NewRoundRepo creates a new RoundRepo with the given MongoDB client, database name, and collection name.
func NewRoundRepo(client *mongo.Client, dbName, collectionName string) *RoundRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &RoundRepo{
		collection: collection,
	}
}

// Save upserts the round by id.
func (r *RoundRepo) Save(ctx context.Context, round game.Round) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	doc := toDocument(round)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("saving round %s: %w", doc.ID, err)
	}
	return nil
}

// ByID retrieves a round by its id.
func (r *RoundRepo) ByID(ctx context.Context, id uuid.UUID) (game.Round, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc roundDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return game.Round{}, ErrRoundNotFound
		}
		return game.Round{}, fmt.Errorf("loading round %s: %w", id, err)
	}
	return doc.toRound()
}

// Recent returns up to n rounds ordered by finish time, newest first.
func (r *RoundRepo) Recent(ctx context.Context, n int64) ([]game.Round, error) {
	if n <= 0 {
		return []game.Round{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}}).SetLimit(n)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []roundDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding rounds: %w", err)
	}

	rounds := make([]game.Round, 0, len(docs))
	for _, d := range docs {
		round, err := d.toRound()
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}
