package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialnet/app/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	postsCollection = "posts"

	// MongoDB server error code for "collection already exists".
	codeNamespaceExists = 48
)

const connectTimeout = 10 * time.Second

var (
	_ repositories.UserRepository = (*MongoUserRepository)(nil)
	_ repositories.PostRepository = (*MongoPostRepository)(nil)
)

// Connection holds a connected client and the database the repositories use.
type Connection struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the server answers, and prepares the collections.
func Connect(ctx context.Context, uri, dbName string) (*Connection, error) {
	if uri == "" {
		return nil, errors.New("mongodb uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	conn := &Connection{client: client, db: client.Database(dbName)}
	if err := conn.ensureCollections(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return conn, nil
}

// DB returns the database handle.
func (c *Connection) DB() *mongo.Database {
	return c.db
}

// Close disconnects the client.
func (c *Connection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// NewStore wires both repositories over the connection. Closing the store disconnects it.
func NewStore(conn *Connection) *repositories.Store {
	return repositories.NewStore(NewUserRepository(conn), NewPostRepository(conn), conn.Close)
}

func (c *Connection) ensureCollections(ctx context.Context) error {
	if err := c.createCollection(ctx, usersCollection, nil); err != nil {
		return err
	}

	postValidator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "body", "user_id", "status"},
			"properties": bson.M{
				"status": bson.M{
					"enum": bson.A{"draft", "published", "archived"},
				},
				"like_count": bson.M{
					"bsonType": bson.A{"int", "long"},
					"minimum":  0,
				},
			},
		},
	}
	if err := c.createCollection(ctx, postsCollection, postValidator); err != nil {
		return err
	}

	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = c.db.Collection(postsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts author index: %w", err)
	}
	return nil
}

func (c *Connection) createCollection(ctx context.Context, name string, validator bson.M) error {
	opts := options.CreateCollection()
	if validator != nil {
		opts.SetValidator(validator)
	}

	err := c.db.CreateCollection(ctx, name, opts)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create %s collection: %w", name, err)
	}
	return nil
}
