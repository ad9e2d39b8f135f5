package mongo

import (
	"alcyxob/sportlink/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// applyBefore restricts filter to items older than the page cursor on
// field. Callers must sort by (field, _id) descending so the cursor
// (Before, BeforeID) is a strict position in that order.
func applyBefore(filter bson.M, field string, page repository.Page) {
	if page.Before.IsZero() {
		return
	}
	if page.BeforeID == primitive.NilObjectID {
		filter[field] = bson.M{"$lt": page.Before}
		return
	}
	filter["$or"] = bson.A{
		bson.M{field: bson.M{"$lt": page.Before}},
		bson.M{field: page.Before, "_id": bson.M{"$lt": page.BeforeID}},
	}
}

// newestFirst is the sort order applyBefore relies on.
func newestFirst(field string) bson.D {
	return bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}}
}
