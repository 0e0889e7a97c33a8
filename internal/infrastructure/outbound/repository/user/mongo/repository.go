package user_repository_mongo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password"`
	Name      string               `bson:"name"`
	Status    string               `bson:"status"`
	Posts     []primitive.ObjectID `bson:"posts"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	posts := make([]string, 0, len(d.Posts))
	for _, id := range d.Posts {
		posts = append(posts, id.Hex())
	}
	return &model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Password:  d.Password,
		Name:      d.Name,
		Status:    d.Status,
		Posts:     posts,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type UserRepository struct {
	coll    *mongo.Collection
	session mongo.Session
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewUserRepository(coll *mongo.Collection, session mongo.Session, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{coll: coll, session: session, log: log, metrics: metrics}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()

	status := user.Status
	if status == "" {
		status = model.DefaultUserStatus
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(user.Email),
		Password:  user.Password,
		Name:      user.Name,
		Status:    status,
		Posts:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.coll.InsertOne(r.scope(ctx), doc)
	r.observe("user_create", start, err == nil)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.log.Debug("User already exists", slog.String("email", doc.Email))
			return nil, custom_errors.ErrUserExists
		}
		r.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, custom_errors.ErrUserNotFound
	}
	return r.findOne(ctx, "user_get_by_id", bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "user_get_by_email", bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status string) (*model.User, error) {
	start := time.Now()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, custom_errors.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC().Truncate(time.Millisecond)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.coll.FindOneAndUpdate(r.scope(ctx), bson.M{"_id": oid}, update, opts).Decode(&doc)
	r.observe("user_update_status", start, err == nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error updating user status", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

// AppendPost uses $addToSet so a retried append cannot duplicate the entry.
func (r *UserRepository) AppendPost(ctx context.Context, userID string, postID string) error {
	return r.updatePosts(ctx, "user_append_post", userID, postID, "$addToSet")
}

func (r *UserRepository) RemovePost(ctx context.Context, userID string, postID string) error {
	return r.updatePosts(ctx, "user_remove_post", userID, postID, "$pull")
}

func (r *UserRepository) updatePosts(ctx context.Context, queryType, userID, postID, operator string) error {
	start := time.Now()
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return custom_errors.ErrUserNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return custom_errors.ErrPostNotFound
	}

	update := bson.M{
		operator: bson.M{"posts": pid},
		"$set":   bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
	}
	res, err := r.coll.UpdateByID(r.scope(ctx), uid, update)
	r.observe(queryType, start, err == nil)
	if err != nil {
		r.log.Error("Error updating user posts",
			slog.String("query", queryType),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if res.MatchedCount == 0 {
		return custom_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, queryType string, filter bson.M) (*model.User, error) {
	start := time.Now()
	var doc userDocument
	err := r.coll.FindOne(r.scope(ctx), filter).Decode(&doc)
	r.observe(queryType, start, err == nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

func (r *UserRepository) scope(ctx context.Context) context.Context {
	if r.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, r.session)
}

func (r *UserRepository) observe(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}
