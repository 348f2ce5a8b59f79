package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the orders, order_items and the
// option-source collections (proposals, projects, areas) exist.
func Setup(app core.App) {
	orders := ensureCollection(app, "orders", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "number", Required: true, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "area_division", Required: false})
		c.Fields.Add(&core.TextField{Name: "area_sub_area", Required: false})
		c.Fields.Add(&core.BoolField{Name: "ready"})
		c.Fields.Add(&core.BoolField{Name: "confirmed"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_orders_number", true, "number", "")
	})

	ensureCollection(app, "order_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "order",
			Required:      true,
			CollectionId:  orders.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "manufacturer", Required: true})
		c.Fields.Add(&core.TextField{Name: "manufacturer_pn", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "proposal", Required: false})
		c.Fields.Add(&core.TextField{Name: "project", Required: false})
		c.Fields.Add(&core.TextField{Name: "mouser_pn", Required: false})
		c.Fields.Add(&core.TextField{Name: "digikey_pn", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	ensureCollection(app, "areas", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "division", Required: true})
		c.Fields.Add(&core.TextField{Name: "sub_area", Required: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
