package records

import (
	"time"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

// Mock collections served when a tab is unreachable or empty. Cattle has no
// mock set: an empty herd is shown instead of invented animals.

// MockOwners is the owner fallback.
func MockOwners() []models.Owner {
	return []models.Owner{
		{OwnerID: "OWN001", OwnerName: "Rajesh Kumar", Phone: "+91-9876543210", Address: "Village Rampur, UP", Email: "rajesh@email.com"},
		{OwnerID: "OWN002", OwnerName: "Priya Sharma", Phone: "+91-9876543211", Address: "Village Sultanpur, HR", Email: "priya@email.com"},
	}
}

// MockRFIDLogs is the reader log fallback, timestamped relative to now.
func MockRFIDLogs(now time.Time) []models.RFIDLog {
	return []models.RFIDLog{
		{Timestamp: stamp(now, 0), Location: "Entry", RFID: "E2000019060401821860959A", CattleName: "Bella", Breed: "Holstein Friesian", OwnerName: "Rajesh Kumar"},
		{Timestamp: stamp(now, 0), Location: "Exit", RFID: "E2000019060401821860959B", CattleName: "Daisy", Breed: "Jersey", OwnerName: "Rajesh Kumar"},
		{Timestamp: stamp(now, -time.Hour), Location: "Entry", RFID: "E2000019060401821860959C", CattleName: "Buttercup", Breed: "Gir", OwnerName: "Rajesh Kumar"},
		{Timestamp: stamp(now, -2*time.Hour), Location: "Exit", RFID: "E2000019060401821860959D", CattleName: "Rosie", Breed: "Ayrshire", OwnerName: "Rajesh Kumar"},
	}
}

// MockMilkRecords is the milk fallback.
func MockMilkRecords(now time.Time) []models.MilkRecord {
	return []models.MilkRecord{
		{ID: "M001", Timestamp: stamp(now, 0), RFID: "E2000019060401821860959A", CattleName: "Bella", Quantity: 25.5, Quality: models.QualityExcellent, Temperature: 37.2, Session: models.SessionMorning, RecordedBy: "OWN001"},
		{ID: "M002", Timestamp: stamp(now, 0), RFID: "E2000019060401821860959B", CattleName: "Daisy", Quantity: 22.0, Quality: models.QualityGood, Temperature: 37.0, Session: models.SessionMorning, RecordedBy: "OWN001"},
		{ID: "M003", Timestamp: stamp(now, -12*time.Hour), RFID: "E2000019060401821860959A", CattleName: "Bella", Quantity: 24.0, Quality: models.QualityExcellent, Temperature: 37.1, Session: models.SessionEvening, RecordedBy: "OWN001"},
		{ID: "M004", Timestamp: stamp(now, -12*time.Hour), RFID: "E2000019060401821860959C", CattleName: "Buttercup", Quantity: 20.5, Quality: models.QualityGood, Temperature: 37.3, Session: models.SessionEvening, RecordedBy: "OWN001"},
		{ID: "M005", Timestamp: stamp(now, -24*time.Hour), RFID: "E2000019060401821860959D", CattleName: "Rosie", Quantity: 18.0, Quality: models.QualityFair, Temperature: 37.5, Session: models.SessionMorning, RecordedBy: "OWN001"},
	}
}

// MockHealthRecords is the health fallback.
func MockHealthRecords(now time.Time) []models.HealthRecord {
	return []models.HealthRecord{
		{
			ID:                 "H001",
			Timestamp:          stamp(now, 0),
			RFID:               "E2000019060401821860959A",
			CattleName:         "Bella",
			Temperature:        38.5,
			HeartRate:          65,
			RespiratoryRate:    models.IntPtr(25),
			BodyConditionScore: models.IntPtr(4),
			HealthStatus:       models.HealthHealthy,
			RiskLevel:          models.RiskLow,
			Symptoms:           "None",
			Diagnosis:          "Routine checkup - All vitals normal",
			Notes:              "Excellent condition",
			RecordedBy:         "VET001",
		},
		{
			ID:                 "H002",
			Timestamp:          stamp(now, -24*time.Hour),
			RFID:               "E2000019060401821860960C",
			CattleName:         "Petunia",
			Temperature:        39.8,
			HeartRate:          85,
			RespiratoryRate:    models.IntPtr(35),
			BodyConditionScore: models.IntPtr(3),
			HealthStatus:       models.HealthSick,
			RiskLevel:          models.RiskHigh,
			Symptoms:           "Elevated temperature, rapid breathing",
			Diagnosis:          "Suspected respiratory infection",
			Treatment:          "Antibiotics prescribed",
			Notes:              "Monitor closely, follow-up in 3 days",
			RecordedBy:         "VET001",
		},
	}
}

// MockTreatments is the treatment fallback.
func MockTreatments(now time.Time) []models.TreatmentRecord {
	return []models.TreatmentRecord{
		{
			ID:             "T001",
			Timestamp:      stamp(now, -24*time.Hour),
			RFID:           "E2000019060401821860960C",
			CattleName:     "Petunia",
			Medication:     "Amoxicillin",
			Dosage:         "500mg twice daily",
			Duration:       "7 days",
			AdministeredBy: "VET001",
			FollowUpDate:   stamp(now, 48*time.Hour),
			Notes:          "Complete full course even if symptoms improve",
		},
	}
}

func stamp(now time.Time, offset time.Duration) string {
	return now.Add(offset).UTC().Format(models.TimestampLayout)
}
