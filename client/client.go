// Package client is a thin convenience layer over the official MongoDB
// driver that compiles filter-expression strings before delegating.
// Handles are built with explicit factory methods:
//
//	c, err := client.Connect(ctx, "mongodb://localhost:27017")
//	coll := c.Database("brewery").Collection("beers")
//	cur, err := coll.Find(ctx, "beverage = 'beer' and IBU > 20")
package client

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"monquery/query"
)

// Client wraps a connected mongo.Client.
type Client struct {
	mc *mongo.Client
}

// Connect dials the given MongoDB URI.
func Connect(ctx context.Context, uri string) (*Client, error) {
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &Client{mc: mc}, nil
}

// Disconnect closes the underlying client.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.mc.Disconnect(ctx)
}

// Database returns a handle to the named database.
func (c *Client) Database(name string) *Database {
	return &Database{db: c.mc.Database(name)}
}

// Database wraps a mongo.Database.
type Database struct {
	db *mongo.Database
}

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) *Collection {
	return &Collection{coll: d.db.Collection(name)}
}

// Collection wraps a mongo.Collection. Its query methods accept either a
// structured filter, which passes through untouched, or a filter
// expression (string or list form), which is compiled first.
type Collection struct {
	coll *mongo.Collection
}

// Underlying exposes the wrapped mongo.Collection for operations this
// package does not cover.
func (c *Collection) Underlying() *mongo.Collection {
	return c.coll
}

// normalizeFilter compiles expression filters into query documents. With
// orID set, a filter that fails to compile is treated as an _id lookup
// instead of an error, so callers can pass either an expression or a
// plain identifier.
func normalizeFilter(filter interface{}, orID bool) (interface{}, error) {
	switch filter.(type) {
	case nil:
		return bson.M{}, nil
	case string, []string, [][]string, []interface{}:
		doc, err := query.ToMongo(filter)
		if err != nil {
			var bad *query.BadExpression
			if orID && errors.As(err, &bad) {
				return bson.M{"_id": filter}, nil
			}
			return nil, err
		}
		return bson.M(doc), nil
	}
	return filter, nil
}

// Find compiles the filter if needed and runs the driver's Find.
func (c *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f, err := normalizeFilter(filter, false)
	if err != nil {
		return nil, err
	}
	return c.coll.Find(ctx, f, opts...)
}

// FindOne compiles the filter if needed and runs the driver's FindOne.
// A filter that is not a valid expression is looked up as an _id.
func (c *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f, err := normalizeFilter(filter, true)
	if err != nil {
		// unreachable with orID set; keep the driver's error reporting
		return c.coll.FindOne(ctx, bson.M{"_id": filter}, opts...)
	}
	return c.coll.FindOne(ctx, f, opts...)
}

// DeleteMany compiles the filter if needed and runs the driver's
// DeleteMany.
func (c *Collection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f, err := normalizeFilter(filter, false)
	if err != nil {
		return nil, err
	}
	return c.coll.DeleteMany(ctx, f, opts...)
}

// UpdateMany compiles the filter if needed and runs the driver's
// UpdateMany. Like FindOne, an uncompilable filter is treated as an _id.
func (c *Collection) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f, err := normalizeFilter(filter, true)
	if err != nil {
		return nil, err
	}
	return c.coll.UpdateMany(ctx, f, update, opts...)
}
