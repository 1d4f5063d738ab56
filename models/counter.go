package models

// Counter is a named sequence in the counters collection
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
