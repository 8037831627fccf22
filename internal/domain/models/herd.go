package models

// HealthStatus is the condition recorded for an animal or a checkup.
// Values read from the sheet are cast without validation.
type HealthStatus string

const (
	HealthHealthy          HealthStatus = "Healthy"
	HealthSick             HealthStatus = "Sick"
	HealthUnderTreatment   HealthStatus = "Under Treatment"
	HealthUnderObservation HealthStatus = "Under Observation"
	HealthPregnant         HealthStatus = "Pregnant"
	HealthCritical         HealthStatus = "Critical"
)

// RiskLevel grades a health checkup.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// MilkQuality grades a milking.
type MilkQuality string

const (
	QualityExcellent MilkQuality = "Excellent"
	QualityGood      MilkQuality = "Good"
	QualityFair      MilkQuality = "Fair"
	QualityPoor      MilkQuality = "Poor"
)

// MilkSession is the time of day a milking happened.
type MilkSession string

const (
	SessionMorning MilkSession = "Morning"
	SessionEvening MilkSession = "Evening"
)

// Owner is a farmer owning cattle. OwnerID has the OWN### shape.
type Owner struct {
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Email     string `json:"email"`
}

// Cattle is one tagged animal. An empty OwnerID means the animal is unassigned.
type Cattle struct {
	RFID           string       `json:"rfid"`
	CattleName     string       `json:"cattleName"`
	Breed          string       `json:"breed"`
	Age            int          `json:"age"`
	Weight         int          `json:"weight"`
	HealthStatus   HealthStatus `json:"healthStatus"`
	OwnerID        string       `json:"ownerId"`
	Location       string       `json:"location,omitempty"`
	ActivityStatus string       `json:"activityStatus,omitempty"`
}

// RFIDLog is a reader event. Name fields are a snapshot taken at scan time.
type RFIDLog struct {
	Timestamp  string `json:"timestamp"`
	Location   string `json:"location"`
	RFID       string `json:"rfid"`
	CattleName string `json:"cattleName"`
	Breed      string `json:"breed"`
	OwnerName  string `json:"ownerName"`
}

// MilkRecord captures one milking. Quantity is in liters, Temperature in Celsius.
type MilkRecord struct {
	ID          string      `json:"id"`
	Timestamp   string      `json:"timestamp"`
	RFID        string      `json:"rfid"`
	CattleName  string      `json:"cattleName"`
	Quantity    float64     `json:"quantity"`
	Quality     MilkQuality `json:"quality"`
	Temperature float64     `json:"temperature"`
	Session     MilkSession `json:"session"`
	RecordedBy  string      `json:"recordedBy"`
}

// HealthRecord captures one veterinary checkup.
type HealthRecord struct {
	ID                 string       `json:"id"`
	Timestamp          string       `json:"timestamp"`
	RFID               string       `json:"rfid"`
	CattleName         string       `json:"cattleName"`
	Temperature        float64      `json:"temperature"`
	HeartRate          int          `json:"heartRate"`
	RespiratoryRate    *int         `json:"respiratoryRate,omitempty"`
	BodyConditionScore *int         `json:"bodyConditionScore,omitempty"`
	HealthStatus       HealthStatus `json:"healthStatus"`
	RiskLevel          RiskLevel    `json:"riskLevel"`
	Symptoms           string       `json:"symptoms,omitempty"`
	Diagnosis          string       `json:"diagnosis,omitempty"`
	Treatment          string       `json:"treatment,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	RecordedBy         string       `json:"recordedBy"`
}

// TreatmentRecord captures a medication course.
type TreatmentRecord struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	RFID           string `json:"rfid"`
	CattleName     string `json:"cattleName"`
	Medication     string `json:"medication"`
	Dosage         string `json:"dosage"`
	Duration       string `json:"duration"`
	AdministeredBy string `json:"administeredBy"`
	FollowUpDate   string `json:"followUpDate,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// IntPtr is a helper for the optional integer fields of HealthRecord.
func IntPtr(v int) *int {
	return &v
}

// TimestampLayout is the ISO-8601 form used for record timestamps (millisecond precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
