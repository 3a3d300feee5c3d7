package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zuka-backend/models"
)

// Repository is the persistence boundary the service works against.
type Repository interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)

	// TransitionToPaid atomically moves an order from "created" to the
	// given paid status. It reports whether a document matched; a
	// false result means the order is absent or no longer in
	// "created".
	TransitionToPaid(ctx context.Context, id primitive.ObjectID, status string, result *models.PaymentResult, at time.Time) (bool, error)

	// TransitionToDelivered atomically moves an order from a paid
	// status to "delivered".
	TransitionToDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// CartRepository supplies the cart snapshot consumed at order creation.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// Mongo implementation

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("orders")}
}

func (m *MongoRepository) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := m.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.find(ctx, bson.M{"user_id": userID})
}

func (m *MongoRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, cursor.Err()
}

// The status field in the filter is what makes the transition safe
// against a concurrent update on the same order: only one writer can
// match the old status.
func (m *MongoRepository) TransitionToPaid(ctx context.Context, id primitive.ObjectID, status string, result *models.PaymentResult, at time.Time) (bool, error) {
	set := bson.M{
		"status":  status,
		"is_paid": true,
		"paid_at": at,
	}
	if result != nil {
		set["payment_result"] = result
	}

	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.OrderStatusCreated},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoRepository) TransitionToDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := m.col.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []string{models.OrderStatusPaid, models.OrderStatusCODPending}},
		},
		bson.M{"$set": bson.M{
			"status":       models.OrderStatusDelivered,
			"is_delivered": true,
			"delivered_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MongoCartRepository reads and clears the cart collection shared with
// the cart endpoints.
type MongoCartRepository struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{col: db.Collection("carts")}
}

func (m *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := m.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (m *MongoCartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "total_price": 0.0}},
	)
	return err
}
