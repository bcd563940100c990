package recipe

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMalformedIngredient is returned when an upload ingredient field does not
	// split into exactly quantity, unit and description.
	ErrMalformedIngredient = errors.New("wrong ingredient format, please use 'quantity,unit,description'")
	// ErrInvalidField is returned when a numeric upload field cannot be parsed
	// or is out of range.
	ErrInvalidField = errors.New("invalid recipe field")
)

// Ingredient is one line of a recipe. A nil Quantity means "to taste".
type Ingredient struct {
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// Recipe is the full record of one dish.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Publisher   string       `json:"publisher"`
	SourceURL   string       `json:"sourceUrl"`
	Image       string       `json:"image"`
	Servings    int          `json:"servings"`
	CookingTime int          `json:"cookingTime"`
	Ingredients []Ingredient `json:"ingredients"`
	Bookmarked  bool         `json:"bookmarked,omitempty"`
	Key         string       `json:"key,omitempty"`
}

// Preview is the list projection of a Recipe.
type Preview struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Image     string `json:"image"`
	Key       string `json:"key,omitempty"`
}

// UserGenerated reports whether the recipe was submitted by a user.
func (r Recipe) UserGenerated() bool {
	return r.Key != ""
}

// Clone returns a deep copy so snapshots never alias ingredient quantities.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			out.Ingredients[i] = ing
			if ing.Quantity != nil {
				q := *ing.Quantity
				out.Ingredients[i].Quantity = &q
			}
		}
	}
	return out
}

// Preview projects the recipe for list rendering.
func (r Recipe) Preview() Preview {
	return Preview{ID: r.ID, Title: r.Title, Publisher: r.Publisher, Image: r.Image, Key: r.Key}
}

// Quantity is a convenience for building ingredients in code and tests.
func Quantity(q float64) *float64 {
	return &q
}

// FormatQuantity renders a quantity the way cooks read it: 0.5 as "1/2",
// 1.5 as "1 1/2". A nil quantity renders empty.
func FormatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	v := *q
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	whole := math.Floor(v)
	frac := v - whole
	if frac < 1e-9 {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}
	for d := 2.0; d <= 16; d++ {
		n := math.Round(frac * d)
		if n == 0 || n == d {
			continue
		}
		if math.Abs(frac-n/d) < 1e-4 {
			if whole == 0 {
				return fmt.Sprintf("%d/%d", int(n), int(d))
			}
			return fmt.Sprintf("%d %d/%d", int(whole), int(n), int(d))
		}
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Form is the submitted upload form, keyed by field name.
type Form map[string]string

// ParseIngredients extracts ingredients from every non-empty field whose name
// starts with "ingredient". Fields are visited in natural order
// (ingredient-2 before ingredient-10).
func ParseIngredients(form Form) ([]Ingredient, error) {
	var keys []string
	for k, v := range form {
		if strings.HasPrefix(k, "ingredient") && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return naturalLess(keys[i], keys[j])
	})

	ingredients := make([]Ingredient, 0, len(keys))
	for _, k := range keys {
		parts := strings.Split(form[k], ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%s: %w", k, ErrMalformedIngredient)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[2] == "" {
			return nil, fmt.Errorf("%s: missing description: %w", k, ErrMalformedIngredient)
		}

		ing := Ingredient{Unit: parts[1], Description: parts[2]}
		if parts[0] != "" {
			q, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad quantity %q: %w", k, parts[0], ErrMalformedIngredient)
			}
			ing.Quantity = &q
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// ParseUpload turns the upload form into the catalog create payload.
func ParseUpload(form Form) (WireRecipe, error) {
	ingredients, err := ParseIngredients(form)
	if err != nil {
		return WireRecipe{}, err
	}

	cookingTime, err := atoiField(form, "cookingTime")
	if err != nil {
		return WireRecipe{}, err
	}
	servings, err := atoiField(form, "servings")
	if err != nil {
		return WireRecipe{}, err
	}
	if cookingTime < 0 {
		return WireRecipe{}, fmt.Errorf("cookingTime %d must not be negative: %w", cookingTime, ErrInvalidField)
	}
	if servings < 1 {
		return WireRecipe{}, fmt.Errorf("servings %d must be at least 1: %w", servings, ErrInvalidField)
	}

	return ToWire(Recipe{
		Title:       form["title"],
		SourceURL:   form["sourceUrl"],
		Image:       form["image"],
		Publisher:   form["publisher"],
		CookingTime: cookingTime,
		Servings:    servings,
		Ingredients: ingredients,
	}), nil
}

func atoiField(form Form, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(form[name]))
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, form[name], ErrInvalidField)
	}
	return n, nil
}

// naturalLess orders "ingredient-2" before "ingredient-10".
func naturalLess(a, b string) bool {
	pa, na := splitNumericSuffix(a)
	pb, nb := splitNumericSuffix(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitNumericSuffix(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}
