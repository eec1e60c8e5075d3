package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nyc-subway-trivia/internal/domain"
	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.PromoCodeRepository = (*promoCodeRepo)(nil)

// errNamespaceExists is the server code for creating a collection that exists.
const errNamespaceExists = 48

// promoCodeDoc is the stored shape of a code in the codes collection.
type promoCodeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Code        string             `bson:"code"`
	Type        string             `bson:"type"`
	Description string             `bson:"description"`
	ExpiryDate  time.Time          `bson:"expiryDate"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func fromModel(c *model.PromoCode) (promoCodeDoc, error) {
	doc := promoCodeDoc{
		Code:        c.Code,
		Type:        string(c.Type),
		Description: c.Description,
		ExpiryDate:  c.ExpiryDate,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return promoCodeDoc{}, fmt.Errorf("%w: promo code id %q", domain.ErrInvalidArgument, c.ID)
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d promoCodeDoc) toModel() *model.PromoCode {
	return &model.PromoCode{
		ID:          d.ID.Hex(),
		Code:        d.Code,
		Type:        model.CodeType(d.Type),
		Description: d.Description,
		ExpiryDate:  d.ExpiryDate,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

// codeSchema mirrors the validator the trivia app installs on the collection.
var codeSchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"code", "type", "description", "expiryDate", "isActive"},
		"properties": bson.M{
			"code":        bson.M{"bsonType": "string"},
			"type":        bson.M{"enum": bson.A{string(model.CodeTypeRegular), string(model.CodeTypeTopScore)}},
			"description": bson.M{"bsonType": "string"},
			"expiryDate":  bson.M{"bsonType": "date"},
			"isActive":    bson.M{"bsonType": "bool"},
			"createdAt":   bson.M{"bsonType": "date"},
		},
	},
}

type promoCodeRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewPromoCodeRepo(db *mongo.Database, collection string) repository.PromoCodeRepository {
	return &promoCodeRepo{db: db, coll: db.Collection(collection)}
}

// DeactivateAll matches every document; the modified count excludes ones that
// were already inactive.
func (r *promoCodeRepo) DeactivateAll(ctx context.Context) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.D{},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isActive", Value: false}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *promoCodeRepo) Insert(ctx context.Context, code *model.PromoCode) error {
	doc, err := fromModel(code)
	if err != nil {
		return err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		code.ID = oid.Hex()
	}
	return nil
}

func (r *promoCodeRepo) FindActiveByType(ctx context.Context, typ model.CodeType) (*model.PromoCode, error) {
	filter := bson.D{
		{Key: "type", Value: string(typ)},
		{Key: "isActive", Value: true},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var doc promoCodeDoc
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *promoCodeRepo) ListActive(ctx context.Context) ([]*model.PromoCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "isActive", Value: true}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []promoCodeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*model.PromoCode, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *promoCodeRepo) EnsureCollection(ctx context.Context) error {
	name := r.coll.Name()
	names, err := r.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) > 0 {
		return nil
	}
	err = r.db.CreateCollection(ctx, name, options.CreateCollection().SetValidator(codeSchema))
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == errNamespaceExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}
