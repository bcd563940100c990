package recipe

// WireIngredient is the catalog's ingredient shape.
type WireIngredient struct {
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// WireRecipe is the catalog's recipe shape, snake_case on the wire.
type WireRecipe struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Publisher   string           `json:"publisher"`
	SourceURL   string           `json:"source_url"`
	ImageURL    string           `json:"image_url"`
	Servings    int              `json:"servings"`
	CookingTime int              `json:"cooking_time"`
	Ingredients []WireIngredient `json:"ingredients"`
	Key         string           `json:"key,omitempty"`
}

// WirePreview is one entry of a catalog search response.
type WirePreview struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ImageURL  string `json:"image_url"`
	Key       string `json:"key,omitempty"`
}

// FromWire maps a catalog payload into a Recipe. Bookmarked is left false;
// the store derives it.
func FromWire(w WireRecipe) Recipe {
	r := Recipe{
		ID:          w.ID,
		Title:       w.Title,
		Publisher:   w.Publisher,
		SourceURL:   w.SourceURL,
		Image:       w.ImageURL,
		Servings:    w.Servings,
		CookingTime: w.CookingTime,
		Key:         w.Key,
		Ingredients: make([]Ingredient, 0, len(w.Ingredients)),
	}
	for _, ing := range w.Ingredients {
		r.Ingredients = append(r.Ingredients, Ingredient{
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Description: ing.Description,
		})
	}
	return r
}

// ToWire maps a Recipe into the create payload. ID and Key are assigned by
// the catalog and are not sent.
func ToWire(r Recipe) WireRecipe {
	w := WireRecipe{
		Title:       r.Title,
		Publisher:   r.Publisher,
		SourceURL:   r.SourceURL,
		ImageURL:    r.Image,
		Servings:    r.Servings,
		CookingTime: r.CookingTime,
		Ingredients: make([]WireIngredient, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		w.Ingredients = append(w.Ingredients, WireIngredient{
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Description: ing.Description,
		})
	}
	return w
}

// PreviewFromWire maps one search hit.
func PreviewFromWire(w WirePreview) Preview {
	return Preview{
		ID:        w.ID,
		Title:     w.Title,
		Publisher: w.Publisher,
		Image:     w.ImageURL,
		Key:       w.Key,
	}
}
