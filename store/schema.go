package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"showcase/models"
)

//go:embed item.schema.json
var itemSchema []byte

var (
	itemSchemaOnce sync.Once
	compiledItem   *gojsonschema.Schema
	itemSchemaErr  error
)

func loadItemSchema() {
	compiledItem, itemSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(itemSchema))
	if itemSchemaErr != nil {
		itemSchemaErr = fmt.Errorf("compile item schema: %w", itemSchemaErr)
	}
}

// ValidateItem checks an item against the embedded item schema.
func ValidateItem(item models.Item) error {
	itemSchemaOnce.Do(loadItemSchema)
	if itemSchemaErr != nil {
		return itemSchemaErr
	}
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := compiledItem.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return err
	}
	if !res.Valid() {
		return fmt.Errorf("item %s invalid: %v", item.ItemID, res.Errors())
	}
	return nil
}
