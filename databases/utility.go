package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListLimit caps every list query
const ListLimit int64 = 200

// NotDeleted matches documents whose deleted flag is not true
func NotDeleted() bson.M {
	return bson.M{"deleted": bson.M{"$ne": true}}
}

// ListOptions returns the capped, sorted find options used by list routes
func ListOptions(sortField string, direction int) *options.FindOptions {
	return options.Find().
		SetLimit(ListLimit).
		SetSort(bson.D{{Key: sortField, Value: direction}})
}
