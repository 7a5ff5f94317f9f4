package repository

import (
	"context"
	"fmt"

	"lending_service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

func (d userDocument) toModel() models.User {
	return models.User{ID: d.ID.Hex(), Name: d.Name, Email: d.Email}
}

type UserMongo struct {
	collection *mongo.Collection
}

func NewUserMongo(db *mongo.Database) *UserMongo {
	return &UserMongo{collection: db.Collection(usersCollection)}
}

var _ UserRepo = (*UserMongo)(nil)

func (r *UserMongo) Insert(ctx context.Context, u *models.User) error {
	doc := userDocument{ID: primitive.NewObjectID(), Name: u.Name, Email: u.Email}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert user %q: %w", u.Name, err)
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (r *UserMongo) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *UserMongo) Get(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	var doc userDocument
	if err := r.collection.FindOne(ctx, byID(oid)).Decode(&doc); err != nil {
		return models.User{}, notFound(err)
	}
	return doc.toModel(), nil
}

func (r *UserMongo) Update(ctx context.Context, id string, p models.UserPatch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if len(set) == 0 {
		// an empty $set is rejected by the server; just check the document exists
		return notFound(r.collection.FindOne(ctx, byID(oid), options.FindOne().SetProjection(bson.M{"_id": 1})).Err())
	}

	res, err := r.collection.UpdateOne(ctx, byID(oid), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserMongo) Delete(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	var doc userDocument
	if err := r.collection.FindOneAndDelete(ctx, byID(oid)).Decode(&doc); err != nil {
		return models.User{}, notFound(err)
	}
	return doc.toModel(), nil
}
