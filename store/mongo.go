package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// Mongo is a Store backed by one MongoDB database
type Mongo struct {
	client   *mongo.Client
	products *mongo.Collection
	users    *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
}

// OpenMongo connects to uri, pings the server and ensures indexes
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := NewMongo(client, database)
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// NewMongo wraps an already connected client
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:   client,
		products: db.Collection("products"),
		users:    db.Collection("users"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
	}
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	unique := func(keys ...string) mongo.IndexModel {
		doc := bson.D{}
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: doc, Options: options.Index().SetUnique(true)}
	}
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		m.products: {unique("id")},
		m.users:    {unique("id"), unique("email")},
		m.carts:    {unique("user_id")},
		m.orders:   {unique("id"), {Keys: bson.D{{Key: "user_id", Value: 1}}}},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (m *Mongo) Products() ProductRepository { return &mongoProducts{coll: m.products} }
func (m *Mongo) Users() UserRepository       { return &mongoUsers{coll: m.users} }
func (m *Mongo) Carts() CartRepository       { return &mongoCarts{coll: m.carts} }
func (m *Mongo) Orders() OrderRepository     { return &mongoOrders{coll: m.orders} }

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func mongoErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Exclude internal fields; _id order is insertion order
var withoutObjectID = options.Find().SetProjection(bson.M{"_id": 0}).SetSort(bson.D{{Key: "_id", Value: 1}})

type mongoProducts struct {
	coll *mongo.Collection
}

func (r *mongoProducts) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, withoutObjectID)
	if err != nil {
		return nil, mongoErr(err, "fetch products")
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, mongoErr(err, "read products")
	}
	return products, nil
}

func (r *mongoProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		return nil, mongoErr(err, "find product")
	}
	return &p, nil
}

func (r *mongoProducts) Create(ctx context.Context, p *models.Product) error {
	_, err := r.coll.InsertOne(ctx, p)
	return mongoErr(err, "create product")
}

func (r *mongoProducts) Update(ctx context.Context, p *models.Product) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return mongoErr(err, "update product")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProducts) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return mongoErr(err, "delete product")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProducts) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mongoErr(err, "count products")
	}
	return n, nil
}

func (r *mongoProducts) InsertMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return mongoErr(err, "insert products")
}

func (r *mongoProducts) AdjustStock(ctx context.Context, id string, delta int) error {
	filter := bson.M{"id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": delta}})
	if err != nil {
		return mongoErr(err, "adjust stock")
	}
	if result.MatchedCount == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mongoErr(err, "find user")
	}
	return &u, nil
}

func (r *mongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		return nil, mongoErr(err, "find user")
	}
	return &u, nil
}

func (r *mongoUsers) Create(ctx context.Context, u *models.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	return mongoErr(err, "create user")
}

type mongoCarts struct {
	coll *mongo.Collection
}

func (r *mongoCarts) Get(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Cart{UserID: userID, Lines: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, mongoErr(err, "find cart")
	}
	return &c, nil
}

func (r *mongoCarts) Save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = time.Now()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": c.UserID}, c, options.Replace().SetUpsert(true))
	return mongoErr(err, "save cart")
}

func (r *mongoCarts) Delete(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	return mongoErr(err, "delete cart")
}

type mongoOrders struct {
	coll *mongo.Collection
}

func (r *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	return mongoErr(err, "create order")
}

func (r *mongoOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		return nil, mongoErr(err, "find order")
	}
	return &o, nil
}

func (r *mongoOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mongoErr(err, "retrieve orders")
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, mongoErr(err, "decode orders")
	}
	return orders, nil
}

func (r *mongoOrders) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"payment_status": status},
	})
	if err != nil {
		return mongoErr(err, "update payment status")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
