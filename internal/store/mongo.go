package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
)

const (
	profilesCollectionName = "profiles"
	accountsCollectionName = "accounts"
)

var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// MongoStore keeps each profile as a document whose _id is the user id
type MongoStore struct {
	client   *mongo.Client
	profiles *mongo.Collection
	accounts *mongo.Collection
	logger   *zap.SugaredLogger
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to MongoDB and creates the indexes it relies on
func NewMongoStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.GetMongoURI()).SetTimeout(cfg.Store.OpTimeout))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	s := &MongoStore{
		client:   client,
		profiles: db.Collection(profilesCollectionName),
		accounts: db.Collection(accountsCollectionName),
		logger:   logger,
	}

	if err := s.Initialize(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Infow("connected to mongo", "database", cfg.Mongo.Database)
	return s, nil
}

func (s *MongoStore) Initialize(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(caseInsensitive).
			SetName("UniqueEmail"),
	})
	if err != nil {
		return fmt.Errorf("unable to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, userID string) (models.Document, error) {
	raw, err := s.profiles.FindOne(ctx, bson.M{"_id": userID}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get profile: %w", err)
	}

	// relaxed extended JSON maps BSON strings, arrays and subdocuments onto
	// plain JSON, which is the shape the other backends return
	js, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("unable to convert profile: %w", err)
	}
	doc, err := decodeDocument(js)
	if err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}

func (s *MongoStore) Set(ctx context.Context, userID string, doc models.Document) error {
	body := bson.M{}
	for k, v := range doc {
		body[k] = v
	}
	delete(body, "_id")

	opts := options.Replace().SetUpsert(true)
	if _, err := s.profiles.ReplaceOne(ctx, bson.M{"_id": userID}, body, opts); err != nil {
		return fmt.Errorf("unable to set profile: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, userID string, fields models.Document) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.profiles.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("unable to update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.accounts.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("unable to create user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	opts := options.FindOne().SetCollation(caseInsensitive)
	err := s.accounts.FindOne(ctx, bson.M{"email": email}, opts).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get user: %w", err)
	}
	return u, nil
}
