package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	ports "feed-service/internal/domain/ports/output"
	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
	post_repository_mongo "feed-service/internal/infrastructure/outbound/repository/post/mongo"
	user_repository_mongo "feed-service/internal/infrastructure/outbound/repository/user/mongo"
)

// MongoUnitOfWork groups writes in a multi-document transaction when
// transactions is set. That requires a replica set; on a standalone server
// writes are applied one by one and Rollback cannot undo them.
type MongoUnitOfWork struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	log          ports.Logger
	metrics      ports.MetricsProvider
}

func NewMongoUOW(client *mongo.Client, db *mongo.Database, transactions bool, log ports.Logger, metrics ports.MetricsProvider) ports.UnitOfWork {
	return &MongoUnitOfWork{client: client, db: db, transactions: transactions, log: log, metrics: metrics}
}

func (uow *MongoUnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	tx := &MongoTransaction{db: uow.db, log: uow.log, metrics: uow.metrics}
	if !uow.transactions {
		return tx, nil
	}

	session, err := uow.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("error starting session: %w", err)
	}
	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	tx.session = session
	return tx, nil
}

type MongoTransaction struct {
	db      *mongo.Database
	session mongo.Session
	log     ports.Logger
	metrics ports.MetricsProvider
}

func (t *MongoTransaction) Commit(ctx context.Context) error {
	if t.session == nil {
		return nil
	}
	if err := t.session.CommitTransaction(ctx); err != nil {
		return err
	}
	t.session.EndSession(ctx)
	t.session = nil
	return nil
}

func (t *MongoTransaction) Rollback(ctx context.Context) error {
	if t.session == nil {
		return nil
	}
	defer func() {
		t.session.EndSession(ctx)
		t.session = nil
	}()
	return t.session.AbortTransaction(ctx)
}

func (t *MongoTransaction) PostRepository() post_repository.Repository {
	return post_repository_mongo.NewPostRepository(t.db.Collection(PostsCollection), t.session, t.log, t.metrics)
}

func (t *MongoTransaction) UserRepository() user_repository.Repository {
	return user_repository_mongo.NewUserRepository(t.db.Collection(UsersCollection), t.session, t.log, t.metrics)
}
