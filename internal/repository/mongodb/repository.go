package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

const reportsCollection = "daily_reports"

// ReportRepository stores the daily herd digests.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyHerdReport) error
	RecentReports(ctx context.Context, limit int64) ([]models.DailyHerdReport, error)
}

// MongoDBRepository implements ReportRepository on MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to the configured database and pings it.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewWithClient(client, cfg.DBName), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client *mongo.Client, dbName string) *MongoDBRepository {
	return &MongoDBRepository{client: client, dbName: dbName}
}

func (r *MongoDBRepository) reports() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(reportsCollection)
}

// SaveDailyReport stores the digest of a day, replacing an earlier run for
// the same date.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyHerdReport) error {
	_, err := r.reports().ReplaceOne(ctx,
		bson.M{"date": report.Date},
		report,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// RecentReports returns up to limit digests, newest first.
func (r *MongoDBRepository) RecentReports(ctx context.Context, limit int64) ([]models.DailyHerdReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.reports().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}

	reports := make([]models.DailyHerdReport, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
