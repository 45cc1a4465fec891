package domain

// Product represents a catalog item. Products are read-only inside the
// recommendation core; writes happen only through seeding/admin paths.
type Product struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	Category    string   `json:"category" bson:"category"`
	Brand       string   `json:"brand,omitempty" bson:"brand,omitempty"`
	Stock       int      `json:"stock" bson:"stock"`
	Rating      float64  `json:"rating" bson:"rating"`
	NumReviews  int      `json:"numReviews" bson:"numReviews"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Images      []string `json:"images,omitempty" bson:"images,omitempty"`
}

// EmbeddingText is the text a product's embedding is derived from:
// description plus space-joined tags.
func (p Product) EmbeddingText() string {
	text := p.Description
	for _, tag := range p.Tags {
		text += " " + tag
	}
	return text
}

// RecommendedProduct is a product enriched with a human-readable explanation
// of why it was recommended. Explanation is always non-empty by the time a
// recommendation leaves the usecase layer.
type RecommendedProduct struct {
	Product
	Explanation string `json:"explanation"`
}
