package post_repository_mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"imageUrl"`
	Creator   primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		CreatorID: d.Creator.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type PostRepository struct {
	coll    *mongo.Collection
	session mongo.Session
	log     ports.Logger
	metrics ports.MetricsProvider
}

// NewPostRepository binds the repository to coll. A non-nil session makes
// every operation part of that session's transaction.
func NewPostRepository(coll *mongo.Collection, session mongo.Session, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{coll: coll, session: session, log: log, metrics: metrics}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.String("creator_id", post.CreatorID), slog.String("title", post.Title))

	creator, err := primitive.ObjectIDFromHex(post.CreatorID)
	if err != nil {
		return nil, custom_errors.ErrUserNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Creator:   creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = p.coll.InsertOne(p.scope(ctx), doc)
	p.observe("post_create", start, err == nil)
	if err != nil {
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

func (p *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	start := time.Now()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		p.log.Debug("Malformed post id", slog.String("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	var doc postDocument
	err = p.coll.FindOne(p.scope(ctx), bson.M{"_id": oid}).Decode(&doc)
	p.observe("post_get_by_id", start, err == nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			p.log.Debug("Post not found by id", slog.String("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.String("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

func (p *PostRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	start := time.Now()
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*model.Post{}, nil
	}

	found, err := p.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
	p.observe("post_get_by_ids", start, err == nil)
	if err != nil {
		p.log.Error("Error getting posts by ids", slog.Int("count", len(ids)), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	byID := make(map[string]*model.Post, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}
	result := make([]*model.Post, 0, len(found))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			result = append(result, post)
		}
	}
	return result, nil
}

func (p *PostRepository) Update(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, custom_errors.ErrPostNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"imageUrl":  post.ImageURL,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = p.coll.FindOneAndUpdate(p.scope(ctx), bson.M{"_id": oid}, update, opts).Decode(&doc)
	p.observe("post_update", start, err == nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.String("id", post.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return doc.toModel(), nil
}

func (p *PostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return custom_errors.ErrPostNotFound
	}

	res, err := p.coll.DeleteOne(p.scope(ctx), bson.M{"_id": oid})
	p.observe("post_delete", start, err == nil)
	if err != nil {
		p.log.Error("Error deleting post", slog.String("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if res.DeletedCount == 0 {
		return custom_errors.ErrPostNotFound
	}
	return nil
}

// List pages through posts. Without NewestFirst posts come in insertion
// order, which for ObjectIDs is ascending _id.
func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	p.log.Debug("Listing posts",
		slog.Any("limit", filters.Limit),
		slog.Any("offset", filters.Offset),
		slog.Bool("newest_first", filters.NewestFirst))

	total, err := p.coll.CountDocuments(p.scope(ctx), bson.M{})
	if err != nil {
		p.observe("post_count", start, false)
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filters.NewestFirst {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	}
	if filters.Offset != nil && *filters.Offset > 0 {
		opts.SetSkip(int64(*filters.Offset))
	}
	if filters.Limit != nil && *filters.Limit > 0 {
		opts.SetLimit(int64(*filters.Limit))
	}

	posts, err := p.find(ctx, bson.M{}, opts)
	p.observe("post_list", start, err == nil)
	if err != nil {
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	return posts, int(total), nil
}

func (p *PostRepository) ImageInUse(ctx context.Context, imageURL string, exceptID string) (bool, error) {
	start := time.Now()

	filter := bson.M{"imageUrl": imageURL}
	if oid, err := primitive.ObjectIDFromHex(exceptID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := p.coll.CountDocuments(p.scope(ctx), filter, options.Count().SetLimit(1))
	p.observe("post_image_in_use", start, err == nil)
	if err != nil {
		p.log.Error("Error checking image usage", slog.String("image_url", imageURL), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}
	return count > 0, nil
}

func (p *PostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Post, error) {
	ctx = p.scope(ctx)
	cursor, err := p.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (p *PostRepository) scope(ctx context.Context) context.Context {
	if p.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, p.session)
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}
