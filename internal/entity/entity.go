// Package entity describes the six record kinds the console manages. Each
// kind is declared once; the list controller, API client and CLI are all
// parameterised by these descriptors instead of repeating per-entity code.
package entity

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType classifies how a raw filter value is normalised before it is
// sent to the server.
type FieldType string

const (
	// FieldString is trimmed and dropped when empty.
	FieldString FieldType = "string"
	// FieldInt is parsed to an integer and dropped when empty or unparsable.
	FieldInt FieldType = "int"
	// FieldBool01 is the tri-state flag: "" means no constraint, "1"/"0"
	// are sent as integers.
	FieldBool01 FieldType = "bool01"
)

// Field is one recognised filter field for a kind.
type Field struct {
	Name string
	Type FieldType
}

// Column maps a record field onto a rendered table column.
type Column struct {
	Header string
	Field  string
}

// Descriptor declares everything kind-specific about one record type.
type Descriptor struct {
	// Name is the canonical CLI name, e.g. "home-garden".
	Name string
	// Path is the REST base path on the server.
	Path string
	// PluralKey is the array key inside the search response data object.
	PluralKey string
	// IDField names the identifying key inside a record.
	IDField string
	// PageSize is fixed per kind.
	PageSize int
	// ScopeField, when set, is the foreign key a farmer-scoped list seeds.
	ScopeField string

	Filters []Field
	Columns []Column
}

// FilterField returns the declaration for a named filter, matching
// case-insensitively.
func (d Descriptor) FilterField(name string) (Field, bool) {
	for _, f := range d.Filters {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Shared location/program filters that every farmer-linked kind repeats.
var commonScopedFilters = []Field{
	{Name: "farmerId", Type: FieldString},
	{Name: "nicNumber", Type: FieldString},
	{Name: "farmerName", Type: FieldString},
	{Name: "district", Type: FieldString},
	{Name: "villageName", Type: FieldString},
	{Name: "programName", Type: FieldString},
	{Name: "dsdDivision", Type: FieldString},
	{Name: "ascDivision", Type: FieldString},
	{Name: "cascadeName", Type: FieldString},
	{Name: "gramaNiladhariDivision", Type: FieldString},
	{Name: "isFemale", Type: FieldBool01},
	{Name: "isMale", Type: FieldBool01},
}

func scopedFilters(extra ...Field) []Field {
	out := make([]Field, 0, len(commonScopedFilters)+len(extra))
	out = append(out, commonScopedFilters...)
	out = append(out, extra...)
	return out
}

var Farmer = Descriptor{
	Name:      "farmer",
	Path:      "/farmers",
	PluralKey: "farmers",
	IDField:   "farmerId",
	PageSize:  6,
	Filters: []Field{
		{Name: "nic", Type: FieldString},
		{Name: "fullName", Type: FieldString},
		{Name: "address", Type: FieldString},
		{Name: "contactNumber", Type: FieldString},
		{Name: "district", Type: FieldString},
		{Name: "gender", Type: FieldString},
	},
	Columns: []Column{
		{Header: "NIC", Field: "nic"},
		{Header: "Name", Field: "fullName"},
		{Header: "Contact", Field: "contactNumber"},
		{Header: "Address", Field: "address"},
		{Header: "District", Field: "district"},
		{Header: "Gender", Field: "gender"},
	},
}

var Equipment = Descriptor{
	Name:       "equipment",
	Path:       "/equipment",
	PluralKey:  "equipment",
	IDField:    "equipmentId",
	PageSize:   10,
	ScopeField: "farmerId",
	Filters: scopedFilters(
		Field{Name: "equipmentName", Type: FieldString},
		Field{Name: "farmerOrganizationName", Type: FieldString},
		Field{Name: "aiRange", Type: FieldString},
		Field{Name: "stepApprovalNumber", Type: FieldString},
		Field{Name: "year", Type: FieldInt},
		Field{Name: "isReplicated", Type: FieldBool01},
	),
	Columns: []Column{
		{Header: "Equipment", Field: "equipmentName"},
		{Header: "Farmer", Field: "farmerName"},
		{Header: "District", Field: "district"},
		{Header: "Village", Field: "villageName"},
		{Header: "Program", Field: "programName"},
		{Header: "Year", Field: "year"},
	},
}

var HomeGarden = Descriptor{
	Name:       "home-garden",
	Path:       "/home-gardens",
	PluralKey:  "homeGardens",
	IDField:    "homeGardenId",
	PageSize:   10,
	ScopeField: "farmerId",
	Filters: scopedFilters(
		Field{Name: "year", Type: FieldInt},
		Field{Name: "isSamurdhiBeneficiary", Type: FieldBool01},
		Field{Name: "isWomanHeadedHousehold", Type: FieldBool01},
		Field{Name: "isDisabled", Type: FieldBool01},
		Field{Name: "isCsaConducted", Type: FieldBool01},
		Field{Name: "isIecConducted", Type: FieldBool01},
	),
	Columns: []Column{
		{Header: "Farmer", Field: "farmerName"},
		{Header: "NIC", Field: "nicNumber"},
		{Header: "District", Field: "district"},
		{Header: "Village", Field: "villageName"},
		{Header: "Program", Field: "programName"},
		{Header: "Year", Field: "year"},
	},
}

var CSAAgriculture = Descriptor{
	Name:       "csa",
	Path:       "/csa-agriculture",
	PluralKey:  "csaAgricultureData",
	IDField:    "csaId",
	PageSize:   10,
	ScopeField: "farmerId",
	Filters: scopedFilters(
		Field{Name: "cropType", Type: FieldString},
		Field{Name: "varietyName", Type: FieldString},
		Field{Name: "tankOrVisName", Type: FieldString},
		Field{Name: "producerSociety", Type: FieldString},
		Field{Name: "farmerOrganizationName", Type: FieldString},
		Field{Name: "aiRange", Type: FieldString},
		Field{Name: "year", Type: FieldInt},
		Field{Name: "isSamurdhiBeneficiary", Type: FieldBool01},
		Field{Name: "isReplicatedCrop", Type: FieldBool01},
		Field{Name: "csaTrainingReceived", Type: FieldBool01},
	),
	Columns: []Column{
		{Header: "Farmer", Field: "farmerName"},
		{Header: "Crop", Field: "cropType"},
		{Header: "Variety", Field: "varietyName"},
		{Header: "District", Field: "district"},
		{Header: "Program", Field: "programName"},
		{Header: "Year", Field: "year"},
	},
}

var AgroWell = Descriptor{
	Name:       "agro-well",
	Path:       "/agro-wells",
	PluralKey:  "agroWells",
	IDField:    "agroWellId",
	PageSize:   10,
	ScopeField: "farmerId",
	Filters: scopedFilters(
		Field{Name: "cultivations", Type: FieldString},
		Field{Name: "irrigationMethod", Type: FieldString},
		Field{Name: "tankOrVisName", Type: FieldString},
		Field{Name: "producerSociety", Type: FieldString},
		Field{Name: "farmerOrganizationName", Type: FieldString},
		Field{Name: "aiRange", Type: FieldString},
		Field{Name: "isSamurdhiBeneficiary", Type: FieldBool01},
		Field{Name: "isReplicatedCrop", Type: FieldBool01},
	),
	Columns: []Column{
		{Header: "Farmer", Field: "farmerName"},
		{Header: "Well type", Field: "wellType"},
		{Header: "District", Field: "district"},
		{Header: "Village", Field: "villageName"},
		{Header: "Usage", Field: "usageType"},
		{Header: "Status", Field: "status"},
	},
}

var PoultryFarming = Descriptor{
	Name:       "poultry",
	Path:       "/poultry-farming",
	PluralKey:  "poultryFarmingData",
	IDField:    "poultryId",
	PageSize:   10,
	ScopeField: "farmerId",
	Filters: scopedFilters(
		Field{Name: "tankOrVisName", Type: FieldString},
		Field{Name: "producerSociety", Type: FieldString},
		Field{Name: "agriculturalInstructor", Type: FieldString},
		Field{Name: "isSamurdhiBeneficiary", Type: FieldBool01},
		Field{Name: "isCsaConducted", Type: FieldBool01},
		Field{Name: "isIecConducted", Type: FieldBool01},
	),
	Columns: []Column{
		{Header: "Farmer", Field: "farmerName"},
		{Header: "Poultry type", Field: "poultryType"},
		{Header: "Birds", Field: "numberOfBirds"},
		{Header: "Method", Field: "farmingMethod"},
		{Header: "Purpose", Field: "purpose"},
		{Header: "District", Field: "district"},
	},
}

var registry = map[string]Descriptor{
	Farmer.Name:         Farmer,
	Equipment.Name:      Equipment,
	HomeGarden.Name:     HomeGarden,
	CSAAgriculture.Name: CSAAgriculture,
	AgroWell.Name:       AgroWell,
	PoultryFarming.Name: PoultryFarming,
}

// aliases accepted on the command line besides the canonical names.
var aliases = map[string]string{
	"farmers":         Farmer.Name,
	"homegarden":      HomeGarden.Name,
	"home-gardens":    HomeGarden.Name,
	"csa-agriculture": CSAAgriculture.Name,
	"agrowell":        AgroWell.Name,
	"agro-wells":      AgroWell.Name,
	"wells":           AgroWell.Name,
	"poultry-farming": PoultryFarming.Name,
}

// Lookup resolves a kind name or alias to its descriptor.
func Lookup(name string) (Descriptor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	d, ok := registry[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown entity kind %q (expected one of %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names lists the canonical kind names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
