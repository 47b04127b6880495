// Package testutil writes small artifact and dataset fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"carprice/internal/artifact"
	"carprice/internal/model"
)

// Vocabularies used by the fixtures. Codes are slice indexes.
var (
	Brands        = []string{"Audi", "BMW", "Honda", "Hyundai", "Mahindra", "Maruti", "Toyota"}
	Models        = []string{"A4", "City", "Creta", "Innova", "Scorpio", "Swift", "X1"}
	Fuels         = []string{"CNG", "Diesel", "LPG", "Petrol"}
	SellerTypes   = []string{"Dealer", "Individual", "Trustmark Dealer"}
	Transmissions = []string{"Automatic", "Manual"}
	Owners        = []string{"First Owner", "Fourth & Above Owner", "Second Owner", "Test Drive Car", "Third Owner"}
)

// FeatureList is the trained column order.
const FeatureList = `features: [year, km_driven, fuel, seller_type, transmission, owner, mileage, engine, max_power, seats, brand, model]
`

// LinearModel prices a car as -500000.5432 + 500*year - km_driven + 1000*max_power.
const LinearModel = `kind: linear
features: [year, km_driven, fuel, seller_type, transmission, owner, mileage, engine, max_power, seats, brand, model]
intercept: -500000.5432
coefficients: [500, -1, 0, 0, 0, 0, 0, 0, 1000, 0, 0, 0]
`

// Dataset mirrors the columns of the car details CSV.
const Dataset = `name,year,selling_price,km_driven,fuel,seller_type,transmission,owner,mileage,engine,max_power,torque,seats
Maruti Swift,2014,450000,145500,Diesel,Individual,Manual,First Owner,23.4 kmpl,1248 CC,74 bhp,190Nm@ 2000rpm,5
Maruti Swift,2017,550000,46000,Petrol,Individual,Manual,First Owner,21.4 kmpl,1197 CC,81.80 bhp,113.75nm@ 4000rpm,5
Hyundai Creta,2016,1150000,60000,Diesel,Dealer,Manual,First Owner,19.67 kmpl,1582 CC,126.2 bhp,259.8Nm@ 1900-2750rpm,5
Honda City,2017,1050000,27000,Petrol,Dealer,Automatic,First Owner,18.0 kmpl,1497 CC,117.6 bhp,145Nm@ 4600rpm,5
Toyota Innova,2012,750000,110000,Diesel,Individual,Manual,Second Owner,12.99 kmpl,2494 CC,100.6 bhp,200Nm@ 1400-3400rpm,8
Mahindra Scorpio,2015,780000,80000,Diesel,Individual,Manual,First Owner,15.4 kmpl,2179 CC,120 bhp,280Nm@ 1800-2800rpm,7
BMW X1,2018,3200000,12000,Diesel,Dealer,Automatic,First Owner,20.68 kmpl,1995 CC,187.74 bhp,400Nm@ 1750-2500rpm,5
Audi A4,2016,2700000,38000,Diesel,Trustmark Dealer,Automatic,First Owner,17.11 kmpl,1968 CC,174.33 bhp,380Nm@ 1750-2500rpm,5
`

// SwiftInput is a valid submission; LinearModel prices it at 537499.4568.
func SwiftInput() model.RawInput {
	return model.RawInput{
		Year:         "2015",
		KmDriven:     "50000",
		Mileage:      "18.5",
		Engine:       "1200.0",
		MaxPower:     "80.0",
		Seats:        "5",
		Brand:        "Maruti",
		Model:        "Swift",
		Fuel:         "Petrol",
		SellerType:   "Individual",
		Transmission: "Manual",
		Owner:        "First Owner",
	}
}

// WriteFile writes body to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// WriteArtifacts writes the six encoders, the feature list and the linear
// model into dir using the default file names.
func WriteArtifacts(t testing.TB, dir string) artifact.Paths {
	t.Helper()
	paths := artifact.DefaultPaths(dir)
	WriteFile(t, dir, artifact.BrandFile, encoderDoc("brand", Brands))
	WriteFile(t, dir, artifact.ModelFile, encoderDoc("model", Models))
	WriteFile(t, dir, artifact.FuelFile, encoderDoc("fuel", Fuels))
	WriteFile(t, dir, artifact.SellerFile, encoderDoc("seller_type", SellerTypes))
	WriteFile(t, dir, artifact.TransmissionFile, encoderDoc("transmission", Transmissions))
	WriteFile(t, dir, artifact.OwnerFile, encoderDoc("owner", Owners))
	WriteFile(t, dir, artifact.FeaturesFile, FeatureList)
	WriteFile(t, dir, artifact.RegressorFile, LinearModel)
	return paths
}

// WriteDataset writes the car details CSV into dir.
func WriteDataset(t testing.TB, dir string) string {
	t.Helper()
	return WriteFile(t, dir, "Cardetails.csv", Dataset)
}

func encoderDoc(field string, classes []string) string {
	doc := "field: " + field + "\nclasses:\n"
	for _, c := range classes {
		doc += "  - \"" + c + "\"\n"
	}
	return doc
}
