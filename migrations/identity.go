package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/hospital-api/databases"
)

var legacyIdentityFields = []string{"first_name", "last_name", "birth_date"}

// LegacyIdentityFilter matches documents still carrying a flat identity field
func LegacyIdentityFilter() bson.M {
	or := make(bson.A, 0, len(legacyIdentityFields))
	for _, f := range legacyIdentityFields {
		or = append(or, bson.M{f: bson.M{"$exists": true}})
	}
	return bson.M{"$or": or}
}

// LegacyIdentityPipeline moves first_name, last_name and birth_date under identite.
// Values already in identite win. A string birth date is parsed, an unparseable
// one is dropped.
func LegacyIdentityPipeline() bson.A {
	birth := bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$type": "$birth_date"}, "string"}},
		bson.M{"$dateFromString": bson.M{"dateString": "$birth_date", "onError": "$$REMOVE"}},
		"$birth_date",
	}}
	return bson.A{
		bson.M{"$set": bson.M{
			"identite.prenom":         bson.M{"$ifNull": bson.A{"$identite.prenom", "$first_name", "$$REMOVE"}},
			"identite.nom":            bson.M{"$ifNull": bson.A{"$identite.nom", "$last_name", "$$REMOVE"}},
			"identite.date_naissance": bson.M{"$ifNull": bson.A{"$identite.date_naissance", birth, "$$REMOVE"}},
			"updated_at":              "$$NOW",
		}},
		bson.M{"$unset": bson.A{"first_name", "last_name", "birth_date"}},
	}
}

// LegacyIdentity rewrites stored patients and doctors to the nested identity shape
func LegacyIdentity(ctx context.Context, db databases.DatabaseHelper) error {
	for _, name := range []string{databases.PatientCollection, databases.DoctorCollection} {
		res, err := db.Collection(name).UpdateMany(ctx, LegacyIdentityFilter(), LegacyIdentityPipeline())
		if err != nil {
			return fmt.Errorf("failed to migrate identity on %s: %w", name, err)
		}
		zap.S().Infow("legacy identity migrated", "collection", name, "modified", res.ModifiedCount)
	}
	return nil
}
