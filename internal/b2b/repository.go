// Package b2b handles large-quantity purchase requests: any single cart
// position above the self-service threshold is diverted here instead of
// going through checkout.
package b2b

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestContacted RequestStatus = "CONTACTED"
	RequestClosed    RequestStatus = "CLOSED"
)

// Request is a sales-contact request for a quantity self-service checkout
// refuses.
type Request struct {
	ID            string        `bson:"_id,omitempty" json:"id"`
	UserID        int64         `bson:"user_id" json:"user_id"`
	ProductTypeID int64         `bson:"product_type_id" json:"product_type_id"`
	Quantity      int           `bson:"quantity" json:"quantity"`
	CompanyName   string        `bson:"company_name" json:"company_name"`
	ContactName   string        `bson:"contact_name" json:"contact_name"`
	ContactPhone  string        `bson:"contact_phone" json:"contact_phone"`
	ContactEmail  string        `bson:"contact_email" json:"contact_email"`
	Note          string        `bson:"note" json:"note"`
	Status        RequestStatus `bson:"status" json:"status"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
}

// Repository defines the interface for B2B request persistence.
// Consumers define this interface, not the MongoDB implementation.
type Repository interface {
	Insert(ctx context.Context, req *Request) error
	ListByUser(ctx context.Context, userID int64) ([]Request, error)
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return mongoRepository{collection: db.Collection("b2b_requests")}
}

func (m mongoRepository) Insert(ctx context.Context, req *Request) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Status == "" {
		req.Status = RequestPending
	}

	_, err := m.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to insert b2b request: %w", err)
	}
	return nil
}

func (m mongoRepository) ListByUser(ctx context.Context, userID int64) ([]Request, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list b2b requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode b2b requests: %w", err)
	}
	return requests, nil
}
