package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zabilal/sims-api/internal/core/ports"
)

// sortDoc translates a "field:direction,field2:direction" expression into a
// Mongo sort document. Order is preserved, so ties on the first key are
// broken by the second.
func sortDoc(sortBy string) bson.D {
	keys := ports.ParseSortBy(sortBy)
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

// findPage runs the shared pagination query: a full count of the matching
// documents followed by a sorted, skip/limit-bounded find. Every repository
// listing goes through here so the envelope semantics stay identical across
// entities.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ports.PageOptions) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	limit, _ := opts.Normalize()
	findOpts := options.Find().
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(limit))
	if sd := sortDoc(opts.SortBy); len(sd) > 0 {
		findOpts.SetSort(sd)
	}

	cur, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)

	var results []T
	if err := cur.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode documents: %w", err)
	}
	return results, total, nil
}
