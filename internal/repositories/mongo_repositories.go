package repositories

import (
	"context"
	"errors"
	"time"

	"homecook-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Product Repository
type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
	}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()

	filter := bson.M{"_id": product.ID}
	update := bson.M{"$set": product}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *productRepository) GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]models.Product, error) {
	var products []models.Product

	filter := bson.M{"vendor_id": vendorID, "is_available": true}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Cart snapshot repository backed by a MongoDB collection
type mongoSnapshotRepository struct {
	collection *mongo.Collection
}

func NewMongoSnapshotRepository(db *mongo.Database) SnapshotRepository {
	return &mongoSnapshotRepository{
		collection: db.Collection("cart_snapshots"),
	}
}

func (r *mongoSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var doc models.CartSnapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (r *mongoSnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	doc := models.CartSnapshotDocument{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoSnapshotRepository) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
