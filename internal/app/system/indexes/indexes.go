// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	auditstore "github.com/dalemusser/chathub/internal/app/store/audit"
	contactstore "github.com/dalemusser/chathub/internal/app/store/contacts"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection pairs a collection name with the indexes it should carry.
type Collection struct {
	Name    string
	Indexes []mongo.IndexModel
}

// All lists every collection chathub indexes, in ensure order.
func All() []Collection {
	return []Collection{
		{Name: "users", Indexes: userstore.Indexes()},
		{Name: "rooms", Indexes: roomstore.Indexes()},
		{Name: "contacts", Indexes: contactstore.Indexes()},
		{Name: "audit_events", Indexes: auditstore.Indexes()},
	}
}

/*
EnsureAll is called at startup. Reconciling is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, c := range All() {
		if err := ensureIndexSet(ctx, db.Collection(c.Name), c.Indexes, logger); err != nil {
			problems = append(problems, c.Name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// KeySig renders an index key pattern as a comparable signature.
func KeySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Mongo/DocDB returns IndexOptionsConflict when an index with the same keys
// already exists under a different name.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[KeySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A missing collection has no indexes yet; CreateOne creates it.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := KeySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name) {
				logger.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Same keys with other options or name: rebuild.
			logger.Info("rebuilding index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("keys", sig),
				zap.Bool("unique", isUnique(unique)))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			switch {
			case wafflemongo.IsDup(err):
				errs = append(errs, fmt.Sprintf("[%s]: duplicate values prevent unique index: %v", sig, err))
			case isOptionsConflictErr(err):
				logger.Warn("index options conflict; leaving existing index",
					zap.String("collection", coll.Name()),
					zap.String("keys", sig),
					zap.Error(err))
			default:
				errs = append(errs, fmt.Sprintf("[%s]: %v", sig, err))
			}
			continue
		}
		logger.Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
