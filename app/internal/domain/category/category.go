package category

import (
	"encoding/json"

	"github.com/deep1161/djMART/app/internal/jsonx"
)

type Category struct {
	ID   string `json:"_id" validate:"required"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`

	// Extra holds the catalog fields not declared above.
	Extra map[string]json.RawMessage `json:"-"`
}

type categoryJSON Category

var categoryKeys = []string{"_id", "name", "slug"}

func (c Category) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(categoryJSON(c), c.Extra)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var fields categoryJSON
	extra, err := jsonx.Split(data, &fields, categoryKeys...)
	if err != nil {
		return err
	}
	fields.Extra = extra
	*c = Category(fields)
	return nil
}
