package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
	"github.com/Werneck0live/crm-patrocinio/internal/utils"
)

// Publisher recebe cada alteração confirmada no banco (change feed).
type Publisher interface {
	PublishChange(ctx context.Context, ev models.ChangeEvent) error
}

// Auditor grava a trilha append-only.
type Auditor interface {
	Append(ctx context.Context, entry models.AuditLog) error
}

// Collection é uma tabela do CRM sobre uma collection do Mongo. Toda escrita
// bem-sucedida é publicada no feed e auditada; falhas nesses dois passos só
// são logadas, porque o registro já foi persistido.
type Collection[T any] struct {
	name  string
	coll  *mongo.Collection
	pub   Publisher
	audit Auditor
	log   *slog.Logger
	now   func() time.Time
}

func NewCollection[T any](db *mongo.Database, name string, pub Publisher, audit Auditor, log *slog.Logger) *Collection[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Collection[T]{
		name:  name,
		coll:  db.Collection(name),
		pub:   pub,
		audit: audit,
		log:   log.With("cmp", "repository", "table", name),
		now:   time.Now,
	}
}

func (c *Collection[T]) Name() string { return c.name }

// List devolve todos os registros em ordem de chegada.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return c.find(ctx, bson.M{})
}

func (c *Collection[T]) ListBy(ctx context.Context, field, value string) ([]T, error) {
	return c.find(ctx, bson.M{field: value})
}

func (c *Collection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s find: %w", c.name, err)
	}
	defer cur.Close(ctx)

	list := []T{}
	for cur.Next(ctx) {
		var row T
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, cur.Err()
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var row T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if err != nil {
		return row, mapWriteErr(err)
	}
	return row, nil
}

// Insert grava as linhas com ids gerados aqui; ids vindos do cliente são mantidos
// apenas se não vazios. created_at é preenchido quando zero.
func (c *Collection[T]) Insert(ctx context.Context, rows ...T) ([]T, error) {
	if len(rows) == 0 {
		return []T{}, nil
	}
	now := c.now().UTC()
	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		doc, err := toDoc(row)
		if err != nil {
			return nil, err
		}
		if id, _ := doc["_id"].(string); id == "" {
			doc["_id"] = uuid.NewString()
		}
		if dt, ok := doc["created_at"].(primitive.DateTime); !ok || dt.Time().IsZero() {
			doc["created_at"] = now
		}
		docs = append(docs, doc)
	}

	if _, err := c.coll.InsertMany(ctx, docs); err != nil {
		return nil, mapWriteErr(err)
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		row, err := fromDoc[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
		c.emit(ctx, models.ActionInsert, d.(bson.M)["_id"].(string), nil, &row)
	}
	return out, nil
}

// Update aplica um $set parcial e devolve o registro já atualizado.
func (c *Collection[T]) Update(ctx context.Context, id string, fields models.Fields) (T, error) {
	var zero T
	old, err := c.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if len(fields) == 0 {
		return old, nil
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var row T
	err = c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&row)
	if err != nil {
		return zero, mapWriteErr(err)
	}
	c.emit(ctx, models.ActionUpdate, id, &old, &row)
	return row, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (T, error) {
	var old T
	err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&old)
	if err != nil {
		return old, mapWriteErr(err)
	}
	c.emit(ctx, models.ActionDelete, id, &old, nil)
	return old, nil
}

func (c *Collection[T]) emit(ctx context.Context, action models.AuditAction, id string, before, after *T) {
	ev := models.ChangeEvent{Table: c.name, EventType: action}
	var oldImg, newImg map[string]any
	if before != nil {
		ev.Old, _ = json.Marshal(before)
		oldImg = image(ev.Old)
	}
	if after != nil {
		ev.New, _ = json.Marshal(after)
		newImg = image(ev.New)
	}

	if c.pub != nil {
		if err := c.pub.PublishChange(ctx, ev); err != nil {
			c.log.Warn("change_publish_failed", "action", action, "id", id, "err", err)
		}
	}
	if c.audit != nil {
		entry := models.AuditLog{
			TableName: c.name,
			RecordID:  id,
			Action:    action,
			OldData:   oldImg,
			NewData:   newImg,
			UserID:    utils.ActorFromContext(ctx),
		}
		if err := c.audit.Append(ctx, entry); err != nil {
			c.log.Warn("audit_append_failed", "action", action, "id", id, "err", err)
		}
	}
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDoc[T any](doc any) (T, error) {
	var row T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return row, err
	}
	err = bson.Unmarshal(raw, &row)
	return row, err
}

// image converte o JSON do registro no mapa usado como before/after da auditoria.
func image(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
