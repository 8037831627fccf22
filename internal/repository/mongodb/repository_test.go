package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

func TestSaveDailyReport(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts by date", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewWithClient(mt.Client, "cattlehealth")

		err := repo.SaveDailyReport(context.Background(), models.DailyHerdReport{
			Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			TotalCattle: 4,
		})

		require.NoError(mt, err)
	})

	mt.Run("surfaces command errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "shutting down",
		}))
		repo := NewWithClient(mt.Client, "cattlehealth")

		err := repo.SaveDailyReport(context.Background(), models.DailyHerdReport{})

		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to save daily report")
	})
}

func TestRecentReports(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes newest first", func(mt *mtest.T) {
		ns := "cattlehealth." + reportsCollection
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "date", Value: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			{Key: "total_cattle", Value: 4},
			{Key: "milk_quality", Value: "Good"},
		})
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch, bson.D{
			{Key: "date", Value: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
			{Key: "total_cattle", Value: 3},
			{Key: "milk_quality", Value: "N/A"},
		})
		mt.AddMockResponses(first, second)
		repo := NewWithClient(mt.Client, "cattlehealth")

		reports, err := repo.RecentReports(context.Background(), 7)

		require.NoError(mt, err)
		require.Len(mt, reports, 2)
		assert.Equal(mt, 4, reports[0].TotalCattle)
		assert.Equal(mt, "Good", reports[0].MilkQuality)
		assert.Equal(mt, 9, reports[1].Date.Day())
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		ns := "cattlehealth." + reportsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewWithClient(mt.Client, "cattlehealth")

		reports, err := repo.RecentReports(context.Background(), 0)

		require.NoError(mt, err)
		assert.NotNil(mt, reports)
		assert.Empty(mt, reports)
	})
}
