package seed

import (
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
)

// Fixture is the content of a seed file. Documents are loose, legacy field names
// are accepted and normalized before they are written.
type Fixture struct {
	Facilities        []bson.M `bson:"facilities"`
	Patients          []bson.M `bson:"patients"`
	Doctors           []bson.M `bson:"doctors"`
	Pharmacies        []bson.M `bson:"pharmacies"`
	Laboratories      []bson.M `bson:"laboratories"`
	HealthAuthorities []bson.M `bson:"healthauthorities"`
	Notifications     []bson.M `bson:"notifications"`
	Appointments      []bson.M `bson:"appointments"`
	Prescriptions     []bson.M `bson:"prescriptions"`
	Payments          []bson.M `bson:"payments"`
}

// ReadFile loads the fixture at path. A missing file returns an error
// matching fs.ErrNotExist.
func ReadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a fixture as relaxed extended JSON, so plain JSON works and
// {"$date": ...} or {"$oid": ...} values keep their BSON types.
func Decode(data []byte) (*Fixture, error) {
	var f Fixture
	if err := bson.UnmarshalExtJSON(data, false, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}
