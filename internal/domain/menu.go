package domain

// Canteen is a food outlet on campus offering its own menu.
type Canteen struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Location string `bson:"location" json:"location"`
	ImageURL string `bson:"image_url" json:"image_url"`
}

// MenuItem is a purchasable item belonging to exactly one canteen.
// The cart keeps the snapshot taken at add time and never re-reads
// price or availability afterwards.
type MenuItem struct {
	ID          string  `bson:"_id" json:"id"`
	CanteenID   string  `bson:"canteen_id" json:"canteen_id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	ImageURL    string  `bson:"image_url" json:"image_url"`
	IsAvailable bool    `bson:"is_available" json:"is_available"`
}
