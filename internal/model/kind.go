package model

// Kind names an entity collection. It doubles as the URL tag of the collection.
type Kind string

const (
	KindCategories  Kind = "categories"
	KindRewards     Kind = "rewards"
	KindActivities  Kind = "activities"
	KindNews        Kind = "news"
	KindUsers       Kind = "users"
	KindDevices     Kind = "devices"
	KindAlerts      Kind = "alerts"
	KindTasks       Kind = "tasks"
	KindMaintenance Kind = "maintenance"
)

// Kinds lists every entity collection in display order.
var Kinds = []Kind{
	KindCategories,
	KindRewards,
	KindActivities,
	KindNews,
	KindUsers,
	KindDevices,
	KindAlerts,
	KindTasks,
	KindMaintenance,
}

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Record is implemented by every entity kept in the store. WithRecordID
// returns a copy of the record carrying the given identifier.
type Record[T any] interface {
	RecordID() string
	WithRecordID(id string) T
}
