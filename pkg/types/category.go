package types

// Category is the fixed set of subscription spending categories.
type Category string

const (
	CategoryVideo    Category = "video"
	CategoryMusic    Category = "music"
	CategoryGame     Category = "game"
	CategoryLearning Category = "learning"
	CategoryNews     Category = "news"
	CategoryStorage  Category = "storage"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryVideo,
	CategoryMusic,
	CategoryGame,
	CategoryLearning,
	CategoryNews,
	CategoryStorage,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
