package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogd/internal/domain/model"
	"blogd/pkg/logger"
)

const defaultMaxUpdateAttempts = 5

type Database struct {
	DBName            string
	QueryTimeout      time.Duration
	MaxUpdateAttempts int
	Client            *mongo.Client
}

func Connect(cfg Config) (*Database, error) {
	return connect(cfg)
}

// connect merges extra over the options built from cfg.
func connect(cfg Config, extra ...*options.ClientOptions) (*Database, error) {
	logger.Info("connecting to mongo", "db", cfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectionTimeout)*time.Millisecond)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(time.Duration(cfg.ConnectionTimeout) * time.Millisecond).
		SetBSONOptions(&options.BSONOptions{
			UseJSONStructTags: true,
			NilSliceAsEmpty:   true,
		})

	client, err := mongo.Connect(ctx, append([]*options.ClientOptions{opts}, extra...)...)
	if err != nil {
		return nil, err
	}

	db, err := prepare(client, cfg)
	if err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			logger.Error("failed to disconnect from mongo", "err", dErr)
		}

		return nil, err
	}

	return db, nil
}

func prepare(client *mongo.Client, cfg Config) (*Database, error) {
	qCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.QueryTimeout)*time.Millisecond)
	defer cancel()

	if err := client.Ping(qCtx, nil); err != nil {
		return nil, err
	}

	attempts := cfg.MaxUpdateAttempts
	if attempts <= 0 {
		attempts = defaultMaxUpdateAttempts
	}

	db := &Database{
		Client:            client,
		DBName:            cfg.DBName,
		QueryTimeout:      time.Duration(cfg.QueryTimeout) * time.Millisecond,
		MaxUpdateAttempts: attempts,
	}

	if err := initCollection(db, model.AuthorCollection, authorSchema(), "email"); err != nil {
		return nil, err
	}

	if err := initCollection(db, model.BlogPostCollection, blogPostSchema(), "author._id"); err != nil {
		return nil, err
	}

	return db, nil
}

func authorSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "surname", "email", "birth_date", "created_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string", "minLength": 1},
			"name":       bson.M{"bsonType": "string", "minLength": 1},
			"surname":    bson.M{"bsonType": "string", "minLength": 1},
			"email":      bson.M{"bsonType": "string", "minLength": 1},
			"birth_date": bson.M{"bsonType": "string", "minLength": 1},
			"avatar":     bson.M{"bsonType": "string"},
			"created_at": bson.M{"bsonType": "date"},
			"_version":   bson.M{"bsonType": "long"},
		},
	}
}

func blogPostSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"_id", "author", "category", "title", "content", "created_at"},
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string", "minLength": 1},
			"author": bson.M{
				"bsonType": "object",
				"required": []string{"name"},
				"properties": bson.M{
					"name": bson.M{"bsonType": "string"},
				},
			},
			"category":   bson.M{"bsonType": "string", "minLength": 1},
			"title":      bson.M{"bsonType": "string", "minLength": 1},
			"content":    bson.M{"bsonType": "string", "minLength": 1},
			"cover":      bson.M{"bsonType": "string"},
			"created_at": bson.M{"bsonType": "date"},
			"_version":   bson.M{"bsonType": "long"},
		},
	}
}

func initCollection(db *Database, name string, schema bson.M, indexKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QueryTimeout)
	defer cancel()

	collections, err := db.Client.Database(db.DBName).ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if len(collections) > 0 {
		return nil // already exists
	}

	collOpts := options.CreateCollection().SetValidator(bson.M{"$jsonSchema": schema})

	err = db.Client.Database(db.DBName).CreateCollection(ctx, name, collOpts)
	if err != nil {
		return err
	}

	coll := db.Client.Database(db.DBName).Collection(name)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: indexKey, Value: 1}},
	})

	return err
}

func (db *Database) Stop() error {
	if err := db.Client.Disconnect(context.Background()); err != nil {
		return err
	}

	return nil
}
