package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Store struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Item struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"                      json:"id"`
	Name        string  `gorm:"not null;uniqueIndex:idx_items_store_name"     json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                                      json:"price"`
	StoreID     uint    `gorm:"not null;index;uniqueIndex:idx_items_store_name" json:"store_id"`
}

type Tag struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"                       json:"id"`
	Name    string `gorm:"not null;uniqueIndex:idx_tags_store_name"       json:"name"`
	StoreID uint   `gorm:"not null;index;uniqueIndex:idx_tags_store_name" json:"store_id"`
}

// ItemTag is the explicit many-to-many link between items and tags. Link rows
// are managed through repository methods, never through gorm associations.
type ItemTag struct {
	ID     uint `gorm:"primaryKey;autoIncrement"       json:"id"`
	ItemID uint `gorm:"not null;index;uniqueIndex:idx_item_tag" json:"item_id"`
	TagID  uint `gorm:"not null;index;uniqueIndex:idx_item_tag" json:"tag_id"`
}
