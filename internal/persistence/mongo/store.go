// Package mongo is the document-store persistence backend: the vehicle
// profile lives in the "vehicle" collection under _id 1 and records in the
// "maintenance" collection keyed by their ledger id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"odolog/internal/core"
	"odolog/internal/ports"
)

const (
	vehicleCollection     = "vehicle"
	maintenanceCollection = "maintenance"
	profileID             = 1
)

var errNilCollection = errors.New("mongo collection is nil")

var (
	_ ports.ProfileStore = (*Store)(nil)
	_ ports.RecordStore  = (*Store)(nil)
	_ ports.RecordFinder = (*Store)(nil)
)

type vehicleDoc struct {
	ID           int       `bson:"_id"`
	Name         string    `bson:"name"`
	CurrentOdoKm int64     `bson:"currentOdoKm"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type maintenanceDoc struct {
	ID               int64     `bson:"_id"`
	TypeID           string    `bson:"type"`
	TypeName         string    `bson:"typeName"`
	IntervalKm       int64     `bson:"intervalKm"`
	OdoAtMaintenance int64     `bson:"odoAtMaintenance"`
	Date             time.Time `bson:"date"`
	PartCost         int64     `bson:"partCost"`
	ServiceCost      int64     `bson:"serviceCost"`
	TotalCost        int64     `bson:"totalCost"`
}

// Store implements the profile and record stores on two collections.
type Store struct {
	client      *mongo.Client
	Vehicles    *mongo.Collection
	Maintenance *mongo.Collection
}

// Connect dials uri, pings the server and prepares the indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:      client,
		Vehicles:    db.Collection(vehicleCollection),
		Maintenance: db.Collection(maintenanceCollection),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the secondary indexes on type and date.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s.Maintenance == nil {
		return errNilCollection
	}
	_, err := s.Maintenance.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create maintenance indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("mongo client is nil")
	}
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// GetProfile implements ports.ProfileStore
func (s *Store) GetProfile(ctx context.Context) (core.VehicleProfile, bool, error) {
	if s.Vehicles == nil {
		return core.VehicleProfile{}, false, errNilCollection
	}
	var doc vehicleDoc
	err := s.Vehicles.FindOne(ctx, bson.M{"_id": profileID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.VehicleProfile{}, false, nil
	}
	if err != nil {
		return core.VehicleProfile{}, false, fmt.Errorf("find vehicle: %w", err)
	}
	return core.VehicleProfile{Name: doc.Name, CurrentOdoKm: doc.CurrentOdoKm}, true, nil
}

// SaveProfile implements ports.ProfileStore
func (s *Store) SaveProfile(ctx context.Context, p core.VehicleProfile) error {
	if s.Vehicles == nil {
		return errNilCollection
	}
	doc := vehicleDoc{ID: profileID, Name: p.Name, CurrentOdoKm: p.CurrentOdoKm, UpdatedAt: time.Now().UTC()}
	_, err := s.Vehicles.ReplaceOne(ctx, bson.M{"_id": profileID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace vehicle: %w", err)
	}
	return nil
}

// InsertRecord implements ports.RecordStore
func (s *Store) InsertRecord(ctx context.Context, r core.MaintenanceRecord) error {
	if s.Maintenance == nil {
		return errNilCollection
	}
	if _, err := s.Maintenance.InsertOne(ctx, toDoc(r)); err != nil {
		return fmt.Errorf("insert maintenance: %w", err)
	}
	return nil
}

// DeleteRecord implements ports.RecordStore
func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	if s.Maintenance == nil {
		return errNilCollection
	}
	res, err := s.Maintenance.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	if res.DeletedCount == 0 {
		return &core.NotFoundError{Kind: "record", ID: id}
	}
	return nil
}

// ListRecords implements ports.RecordStore
func (s *Store) ListRecords(ctx context.Context) ([]core.MaintenanceRecord, error) {
	return s.find(ctx, bson.M{}, bson.D{{Key: "_id", Value: 1}})
}

// ListRecordsByType implements ports.RecordFinder
func (s *Store) ListRecordsByType(ctx context.Context, typeID string) ([]core.MaintenanceRecord, error) {
	return s.find(ctx, bson.M{"type": typeID}, bson.D{{Key: "_id", Value: 1}})
}

// ListRecordsBetween implements ports.RecordFinder; both bounds are inclusive.
func (s *Store) ListRecordsBetween(ctx context.Context, from, to core.Date) ([]core.MaintenanceRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": from.Time, "$lte": to.Time}}
	return s.find(ctx, filter, bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]core.MaintenanceRecord, error) {
	if s.Maintenance == nil {
		return nil, errNilCollection
	}
	cur, err := s.Maintenance.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find maintenance: %w", err)
	}
	defer cur.Close(ctx)

	var docs []maintenanceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode maintenance: %w", err)
	}
	out := make([]core.MaintenanceRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func toDoc(r core.MaintenanceRecord) maintenanceDoc {
	return maintenanceDoc{
		ID:               r.ID,
		TypeID:           r.TypeID,
		TypeName:         r.TypeName,
		IntervalKm:       r.IntervalKm,
		OdoAtMaintenance: r.OdoAtMaintenance,
		Date:             r.Date.Time,
		PartCost:         r.PartCost,
		ServiceCost:      r.ServiceCost,
		TotalCost:        r.TotalCost,
	}
}

func fromDoc(d maintenanceDoc) core.MaintenanceRecord {
	return core.MaintenanceRecord{
		ID:               d.ID,
		TypeID:           d.TypeID,
		TypeName:         d.TypeName,
		IntervalKm:       d.IntervalKm,
		OdoAtMaintenance: d.OdoAtMaintenance,
		Date:             core.NewDate(d.Date.UTC().Year(), int(d.Date.UTC().Month()), d.Date.UTC().Day()),
		PartCost:         d.PartCost,
		ServiceCost:      d.ServiceCost,
		TotalCost:        d.TotalCost,
	}
}
