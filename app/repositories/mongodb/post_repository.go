package mongodb

import (
	"context"
	"errors"
	"fmt"

	"socialnet/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepository implements repositories.PostRepository on a MongoDB collection.
type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(conn *Connection) *MongoPostRepository {
	return &MongoPostRepository{coll: conn.db.Collection(postsCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoPostRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoPostRepository) Update(ctx context.Context, id primitive.ObjectID, changes models.PostChanges) (*models.Post, error) {
	if changes.Status != "" && !changes.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", models.ErrValidation, changes.Status)
	}

	set := bson.M{}
	if changes.Title != "" {
		set["title"] = changes.Title
	}
	if changes.Body != "" {
		set["body"] = changes.Body
	}
	if changes.Status != "" {
		set["status"] = changes.Status
	}
	if changes.Image != "" {
		set["image"] = changes.Image
	}
	if len(set) == 0 {
		return r.findOne(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	return r.decodeResult(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts))
}

func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.decodeResult(r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}))
}

func (r *MongoPostRepository) AddComment(ctx context.Context, id primitive.ObjectID, comment string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$push": bson.M{"comment": comment}}
	return r.decodeResult(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

func (r *MongoPostRepository) IncrementLikes(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"like_count": 1}}
	return r.decodeResult(r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

func (r *MongoPostRepository) findOne(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.decodeResult(r.coll.FindOne(ctx, bson.M{"_id": id}))
}

func (r *MongoPostRepository) decodeResult(res *mongo.SingleResult) (*models.Post, error) {
	var post models.Post
	err := res.Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &post, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}
