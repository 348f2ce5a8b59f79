package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

type areaDef struct {
	division string
	subArea  string
}

var seedProposals = []string{
	"Elettronica generale",
	"Sensoristica AUV",
	"Propulsione ROV",
}

var seedProjects = []string{
	"Varie per lab",
	"Nereo",
	"Ulisse",
}

var seedAreas = []areaDef{
	{division: "Elettronica", subArea: "Potenza"},
	{division: "Elettronica", subArea: "Sensori"},
	{division: "Meccanica", subArea: "Strutture"},
	{division: "Software", subArea: "Controllo"},
}

// Seed fills the option-source collections (proposals, projects, areas)
// used by the order forms. Each collection is seeded only while empty.
func Seed(app core.App) error {
	if err := seedNames(app, "proposals", seedProposals); err != nil {
		return err
	}
	if err := seedNames(app, "projects", seedProjects); err != nil {
		return err
	}

	areasCol, err := app.FindCollectionByNameOrId("areas")
	if err != nil {
		return fmt.Errorf("seed: could not find areas collection: %w", err)
	}
	existing, err := app.FindAllRecords(areasCol)
	if err != nil {
		return fmt.Errorf("seed: could not query areas: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: areas collection is empty – inserting seed data …")
	for _, a := range seedAreas {
		record := core.NewRecord(areasCol)
		record.Set("division", a.division)
		record.Set("sub_area", a.subArea)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save area %s/%s: %w", a.division, a.subArea, err)
		}
	}
	return nil
}

func seedNames(app core.App, collection string, names []string) error {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", collection, err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query %s: %w", collection, err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Printf("seed: %s collection is empty – inserting seed data …", collection)
	for _, name := range names {
		record := core.NewRecord(col)
		record.Set("name", name)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save %s %q: %w", collection, name, err)
		}
	}
	return nil
}
