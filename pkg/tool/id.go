package tool

import "github.com/google/uuid"

// snapshotNamespace scopes deterministic snapshot ids.
var snapshotNamespace = uuid.MustParse("7e0c6b3a-9d41-4f2e-8b5c-2f1a6d9e4c70")

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SnapshotID derives a stable id from (templateID, monthKey). The same
// template and month always map to the same id, which turns snapshot
// insertion into a conditional write: a second attempt conflicts on the
// primary key instead of producing a duplicate charge.
func SnapshotID(templateID, monthKey string) string {
	return uuid.NewSHA1(snapshotNamespace, []byte(templateID+"/"+monthKey)).String()
}
