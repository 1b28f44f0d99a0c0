package models

// Category is one of the fixed storefront departments
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFashion     Category = "Fashion"
	CategoryHome        Category = "Home"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryElectronics,
	CategoryFashion,
	CategoryHome,
	CategorySports,
	CategoryBooks,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a purchasable catalog item
type Product struct {
	ID          string   `bson:"id" json:"id" gorm:"primaryKey;size:64"`
	Title       string   `bson:"title" json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Price       float64  `bson:"price" json:"price" gorm:"not null" validate:"gte=0"`
	Description string   `bson:"description" json:"description" gorm:"size:2000"`
	Category    Category `bson:"category" json:"category" gorm:"size:32;index" validate:"category"`
	Stock       int      `bson:"stock" json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	Image       string   `bson:"image" json:"image"`
	Rating      float64  `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}
