package repository

import (
	"context"
	"time"

	"histock/internal/logger"
	"histock/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type TransactionRepository struct {
	collection *mongo.Collection
	limit      int64
}

var TransactionRepositoryTracer = otel.Tracer("TransactionRepository")

func NewTransactionRepository(db *mongo.Database, limit int64) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
		limit:      limit,
	}
}

func (r *TransactionRepository) Collection() *mongo.Collection {
	return r.collection
}

// Append writes one immutable ledger entry. The timestamp is assigned by the
// server via $currentDate, so entries from clients with skewed clocks still
// order consistently. Implemented as an upsert on a fresh ObjectID because
// a plain insert cannot carry $currentDate.
func (r *TransactionRepository) Append(ctx context.Context, t *model.Transaction) error {
	ctx, span := TransactionRepositoryTracer.Start(ctx, "TransactionRepository.Append")
	defer span.End()
	logger.Info(ctx, "Repository")

	id := primitive.NewObjectID()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$setOnInsert": bson.M{
				"productId":   t.ProductID,
				"productName": t.ProductName,
				"type":        t.Type,
				"quantity":    t.Quantity,
				"note":        t.Note,
				"userName":    t.UserName,
			},
			"$currentDate": bson.M{"timestamp": true},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// FindRecent returns the newest ledger entries, bounded by the configured
// limit. Entries whose server timestamp has not landed yet are shown with a
// client-side substitute.
func (r *TransactionRepository) FindRecent(ctx context.Context) ([]model.Transaction, error) {
	ctx, span := TransactionRepositoryTracer.Start(ctx, "TransactionRepository.FindRecent")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(r.limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []model.Transaction
	for cursor.Next(ctx) {
		var t model.Transaction
		if err := cursor.Decode(&t); err != nil {
			return nil, err
		}
		if t.Timestamp.IsZero() {
			t.Timestamp = time.Now()
		}
		transactions = append(transactions, t)
	}
	return transactions, cursor.Err()
}
