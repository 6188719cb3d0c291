package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUnsupportedShape = errors.New("$near requires a GeoJSON point field")

// pointPaths: campos guardados como GeoJSON Point.
var pointPaths = map[pets.LocationField]string{
	pets.FieldBase:    "location.geo",
	pets.FieldFoundAt: "foundDetails.location.geo",
}

// coordinatePaths: dónde aplicar $geoWithin para cada field.
var coordinatePaths = map[pets.LocationField]string{
	pets.FieldBase:     "location.geo",
	pets.FieldLastSeen: "lostDetails.lastSeen.coordinates",
	pets.FieldFoundAt:  "foundDetails.location.geo",
}

type PetsRepo struct {
	coll *mongo.Collection
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{coll: db.Collection(petsCollection)}
}

var _ pets.Store = (*PetsRepo)(nil)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	_, err := r.coll.InsertOne(ctx, toDoc(p))
	return err
}

// Update reescribe el perfil con $set/$unset; matchResults queda como está en
// el documento (lo mueven SetMatchResults/ClearReport/PullMatchResults).
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	update, err := profileUpdate(p)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	var d petDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pets.Pet{}, pets.ErrNotFound
	}
	if err != nil {
		return pets.Pet{}, err
	}
	return d.toPet(), nil
}

func (r *PetsRepo) Find(ctx context.Context, f pets.Filter, page pets.Page) ([]pets.Pet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	return r.find(ctx, buildFilter(f), opts)
}

func (r *PetsRepo) Count(ctx context.Context, f pets.Filter) (int, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(f))
	return int(n), err
}

func (r *PetsRepo) ClearReport(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isLost":       false,
		"isFound":      false,
		"matchResults": bson.A{},
		"updatedAt":    at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) SetMatchResults(ctx context.Context, id string, results []pets.MatchResult, at time.Time) error {
	docs := make([]matchDoc, 0, len(results))
	for _, m := range results {
		docs = append(docs, matchDoc{PetID: m.PetID, Score: m.Score, MatchedAt: m.MatchedAt})
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"matchResults": docs,
		"updatedAt":    at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

// PullMatchResults es un único updateMany con $pull.
func (r *PetsRepo) PullMatchResults(ctx context.Context, candidateID string, at time.Time) (int64, error) {
	filter, update := pullMatchResults(candidateID, at)
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// optionalKeys son los campos omitempty de petDoc: si faltan hay que $unset.
var optionalKeys = []string{
	"breed", "furColor", "eyeColor", "age", "weight", "email", "notes",
	"location", "lostDetails", "foundDetails",
}

func profileUpdate(p pets.Pet) (bson.M, error) {
	raw, err := bson.Marshal(toDoc(p))
	if err != nil {
		return nil, fmt.Errorf("encode pet: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode pet: %w", err)
	}
	delete(set, "_id")
	delete(set, "matchResults")
	delete(set, "createdAt")

	unset := bson.M{}
	for _, k := range optionalKeys {
		if _, ok := set[k]; !ok {
			unset[k] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func pullMatchResults(candidateID string, at time.Time) (filter, update bson.M) {
	filter = bson.M{"matchResults.petId": candidateID}
	update = bson.M{
		"$pull": bson.M{"matchResults": bson.M{"petId": candidateID}},
		"$set":  bson.M{"updatedAt": at},
	}
	return filter, update
}

func (r *PetsRepo) NearPoint(ctx context.Context, field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) ([]pets.Pet, error) {
	filter, err := nearFilter(field, center, maxMeters, f)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, filter, options.Find())
}

func (r *PetsRepo) WithinCenterSphere(ctx context.Context, field pets.LocationField, center geo.Point, radians float64, f pets.Filter) ([]pets.Pet, error) {
	filter, err := centerSphereFilter(field, center, radians, f)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, filter, options.Find())
}

func nearFilter(field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) (bson.M, error) {
	path, ok := pointPaths[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, field)
	}
	filter := buildFilter(f)
	filter[path] = bson.M{"$near": bson.M{
		"$geometry":    bson.M{"type": "Point", "coordinates": bson.A{center.Lng, center.Lat}},
		"$maxDistance": maxMeters,
	}}
	return filter, nil
}

func centerSphereFilter(field pets.LocationField, center geo.Point, radians float64, f pets.Filter) (bson.M, error) {
	path, ok := coordinatePaths[field]
	if !ok {
		return nil, fmt.Errorf("unknown location field %s", field)
	}
	filter := buildFilter(f)
	filter[path] = bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{bson.A{center.Lng, center.Lat}, radians},
	}}
	return filter, nil
}

// buildFilter traduce el predicado no-geo; campos vacíos no filtran.
func buildFilter(f pets.Filter) bson.M {
	filter := bson.M{}
	if f.OwnerUserID != "" {
		filter["ownerUserId"] = f.OwnerUserID
	}
	if f.Species != "" {
		filter["species"] = string(f.Species)
	}
	switch f.Status {
	case pets.StatusLost:
		filter["isLost"] = true
	case pets.StatusFound:
		filter["isFound"] = true
	case pets.StatusLostOrFound:
		filter["$or"] = bson.A{bson.M{"isLost": true}, bson.M{"isFound": true}}
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	}
	return filter
}

func (r *PetsRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]pets.Pet, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]pets.Pet, 0)
	for cur.Next(ctx) {
		var d petDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toPet())
	}
	return out, cur.Err()
}
