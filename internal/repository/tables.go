package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/crm-patrocinio/internal/models"
)

// Tables agrupa as quatro tabelas do CRM e o log de auditoria.
type Tables struct {
	Events    *Collection[models.Event]
	Companies *Collection[models.Company]
	Contacts  *Collection[models.Contact]
	Relations *Collection[models.Relation]
	Audit     *AuditRepository
}

func NewTables(db *mongo.Database, pub Publisher, log *slog.Logger) *Tables {
	audit := NewAuditRepository(db)
	return &Tables{
		Events:    NewCollection[models.Event](db, models.TableEvents, pub, audit, log),
		Companies: NewCollection[models.Company](db, models.TableCompanies, pub, audit, log),
		Contacts:  NewCollection[models.Contact](db, models.TableContacts, pub, audit, log),
		Relations: NewCollection[models.Relation](db, models.TableRelations, pub, audit, log),
		Audit:     audit,
	}
}

// EnsureIndexes cria o índice único (event_id, company_id) e os índices de leitura.
func (t *Tables) EnsureIndexes(ctx context.Context) error {
	uniq := mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "company_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_event_company"),
	}
	if err := ensureIndex(ctx, t.Relations.coll, uniq); err != nil {
		return err
	}

	byCompany := mongo.IndexModel{
		Keys:    bson.D{{Key: "company_id", Value: 1}},
		Options: options.Index().SetName("by_company"),
	}
	if err := ensureIndex(ctx, t.Contacts.coll, byCompany); err != nil {
		return err
	}

	recent := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("by_created_desc"),
	}
	return ensureIndex(ctx, t.Audit.coll, recent)
}

func ensureIndex(ctx context.Context, coll *mongo.Collection, model mongo.IndexModel) error {
	_, err := coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		name := *model.Options.Name
		if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
			return fmt.Errorf("drop index %s: %w", name, dropErr)
		}
		_, createErr := coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}
