package repository

import (
	"context"
	"fmt"
	"time"

	"lending_service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// itemDocument keeps extension fields in a sub-document so they can never shadow the state fields.
type itemDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Borrowed   bool               `bson:"borrowed"`
	BorrowerID *string            `bson:"borrowerId"`
	LoanDate   *time.Time         `bson:"loanDate"`
	ReturnDate *time.Time         `bson:"returnDate"`
	Fields     bson.M             `bson:"fields,omitempty"`
}

func (d itemDocument) toModel() models.Item {
	it := models.Item{
		ID:         d.ID.Hex(),
		Borrowed:   d.Borrowed,
		BorrowerID: d.BorrowerID,
		LoanDate:   utcPtr(d.LoanDate),
		ReturnDate: utcPtr(d.ReturnDate),
		Fields:     plainMap(d.Fields),
	}
	return it
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type ItemMongo struct {
	collection *mongo.Collection
}

func NewItemMongo(db *mongo.Database) *ItemMongo {
	return &ItemMongo{collection: db.Collection(itemsCollection)}
}

var _ ItemRepo = (*ItemMongo)(nil)

func (r *ItemMongo) Insert(ctx context.Context, it *models.Item) error {
	doc := itemDocument{
		ID:         primitive.NewObjectID(),
		Borrowed:   it.Borrowed,
		BorrowerID: it.BorrowerID,
		LoanDate:   it.LoanDate,
		ReturnDate: it.ReturnDate,
		Fields:     bson.M(it.Fields),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	it.ID = doc.ID.Hex()
	return nil
}

func (r *ItemMongo) List(ctx context.Context) ([]models.Item, error) {
	cur, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *ItemMongo) Get(ctx context.Context, id string) (models.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Item{}, err
	}
	var doc itemDocument
	if err := r.collection.FindOne(ctx, byID(oid)).Decode(&doc); err != nil {
		return models.Item{}, notFound(err)
	}
	return doc.toModel(), nil
}

func (r *ItemMongo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return notFound(r.collection.FindOne(ctx, byID(oid), options.FindOne().SetProjection(bson.M{"_id": 1})).Err())
	}

	set := make(bson.M, len(fields))
	for k, v := range fields {
		set["fields."+k] = v
	}
	res, err := r.collection.UpdateOne(ctx, byID(oid), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update item %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ItemMongo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, byID(oid))
	if err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ItemMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ItemMongo) MarkBorrowed(ctx context.Context, id, borrowerID string, at time.Time) (models.Item, error) {
	return r.transition(ctx, id, false, bson.M{
		"borrowed":   true,
		"borrowerId": borrowerID,
		"loanDate":   at.UTC(),
		"returnDate": nil,
	})
}

func (r *ItemMongo) MarkReturned(ctx context.Context, id string, at time.Time) (models.Item, error) {
	return r.transition(ctx, id, true, bson.M{
		"borrowed":   false,
		"borrowerId": nil,
		"returnDate": at.UTC(),
	})
}

// transition applies set only while the item still has the expected borrowed flag.
func (r *ItemMongo) transition(ctx context.Context, id string, borrowed bool, set bson.M) (models.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Item{}, err
	}
	filter := bson.M{"_id": oid, "borrowed": borrowed}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc itemDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return models.Item{}, notFound(err)
	}
	return doc.toModel(), nil
}
