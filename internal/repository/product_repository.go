package repository

import (
	"context"

	"histock/internal/logger"
	"histock/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

type ProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

func (r *ProductRepository) Collection() *mongo.Collection {
	return r.collection
}

// Insert creates a product under its SKU. The SKU is the document key, so a
// concurrent create of the same SKU fails with a duplicate-key error.
func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindAll returns every product, newest first. This is the query the product
// feed re-runs on each change delivery.
func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []model.Product
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()
	logger.Info(ctx, "Repository")

	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": sku}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AdjustStock applies a relative stock change with $inc. Decrements carry a
// stock >= |delta| filter so the stock field can never go negative, even when
// the caller's view of the product was stale. Returns false when the filter
// matched nothing, in which case no write happened.
func (r *ProductRepository) AdjustStock(ctx context.Context, sku string, delta int) (bool, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.AdjustStock")
	defer span.End()
	logger.Info(ctx, "Repository")

	filter := bson.M{"_id": sku}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"stock": delta},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
