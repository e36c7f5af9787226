package models

// Entity payloads for create/update calls. Validation tags cover presence
// and simple format checks only; business rules stay on the server.

// Farmer is the root entity every other record can reference.
type Farmer struct {
	FarmerID      string `json:"farmerId,omitempty"`
	NIC           string `json:"nic" validate:"required"`
	FullName      string `json:"fullName" validate:"required"`
	Address       string `json:"address"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Gender        string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	District      string `json:"district,omitempty"`
	GSDivision    string `json:"gsDivision,omitempty"`
}

// Equipment records machinery handed out under a program.
type Equipment struct {
	EquipmentID   string `json:"equipmentId,omitempty"`
	FarmerID      string `json:"farmerId" validate:"required"`
	EquipmentName string `json:"equipmentName" validate:"required"`
	Brand         string `json:"brand,omitempty"`
	Model         string `json:"model,omitempty"`
	Condition     string `json:"condition,omitempty"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
	ProgramName   string `json:"programName,omitempty"`
	Year          int    `json:"year,omitempty" validate:"omitempty,gte=1900"`
	Notes         string `json:"notes,omitempty"`
}

// HomeGarden captures a household cultivation plot.
type HomeGarden struct {
	HomeGardenID       string  `json:"homeGardenId,omitempty"`
	FarmerID           string  `json:"farmerId" validate:"required"`
	GardenSize         float64 `json:"gardenSize" validate:"gt=0"`
	CropTypes          string  `json:"cropTypes,omitempty"`
	IrrigationMethod   string  `json:"irrigationMethod,omitempty"`
	OrganicFertilizer  int     `json:"organicFertilizer" validate:"oneof=0 1"`
	ChemicalFertilizer int     `json:"chemicalFertilizer" validate:"oneof=0 1"`
	ProgramName        string  `json:"programName,omitempty"`
	Year               int     `json:"year,omitempty" validate:"omitempty,gte=1900"`
	Notes              string  `json:"notes,omitempty"`
}

// CSAAgriculture is a climate-smart-agriculture plot record.
type CSAAgriculture struct {
	CSAID              string  `json:"csaId,omitempty"`
	FarmerID           string  `json:"farmerId" validate:"required"`
	LandSize           float64 `json:"landSize" validate:"gt=0"`
	CropType           string  `json:"cropType" validate:"required"`
	VarietyName        string  `json:"varietyName,omitempty"`
	Season             string  `json:"season,omitempty"`
	IrrigationSystem   string  `json:"irrigationSystem,omitempty"`
	WaterSource        string  `json:"waterSource,omitempty"`
	FertilizationType  string  `json:"fertilizationType,omitempty"`
	ExpectedYield      float64 `json:"expectedYield,omitempty" validate:"omitempty,gte=0"`
	ActualYield        float64 `json:"actualYield,omitempty" validate:"omitempty,gte=0"`
	ProgramName        string  `json:"programName,omitempty"`
	Year               int     `json:"year,omitempty" validate:"omitempty,gte=1900"`
	Notes              string  `json:"notes,omitempty"`
}

// AgroWell is an agricultural well survey record.
type AgroWell struct {
	AgroWellID       string  `json:"agroWellId,omitempty"`
	FarmerID         string  `json:"farmerId" validate:"required"`
	WellType         string  `json:"wellType" validate:"required"`
	Depth            float64 `json:"depth" validate:"gt=0"`
	Diameter         float64 `json:"diameter,omitempty" validate:"omitempty,gt=0"`
	WaterLevel       float64 `json:"waterLevel,omitempty" validate:"omitempty,gte=0"`
	WaterQuality     string  `json:"waterQuality,omitempty"`
	UsageType        string  `json:"usageType" validate:"required"`
	Status           string  `json:"status" validate:"required"`
	Cultivations     string  `json:"cultivations,omitempty"`
	IrrigationMethod string  `json:"irrigationMethod,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// PoultryFarming records a household or commercial poultry operation.
type PoultryFarming struct {
	PoultryID         string `json:"poultryId,omitempty"`
	FarmerID          string `json:"farmerId" validate:"required"`
	PoultryType       string `json:"poultryType" validate:"required"`
	NumberOfBirds     int    `json:"numberOfBirds" validate:"gt=0"`
	FarmingMethod     string `json:"farmingMethod" validate:"required"`
	Purpose           string `json:"purpose" validate:"required,oneof=eggs meat both"`
	FeedType          string `json:"feedType,omitempty"`
	HousingType       string `json:"housingType,omitempty"`
	VaccinationStatus string `json:"vaccinationStatus,omitempty"`
	Notes             string `json:"notes,omitempty"`
}
