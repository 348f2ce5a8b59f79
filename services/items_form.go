package services

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Fallbacks applied when a submitted row lacks a proposal or project.
const (
	DefaultProposal = "Elettronica generale"
	DefaultProject  = "Varie per lab"
)

// legacyManufacturer is the misspelling older forms used for field names.
const legacyManufacturer = "manifacturer"

// ParseItemsForm rebuilds the line items of a submitted order form. Rows are
// discovered through their manufacturer part number field and returned in
// ascending counter order; indices need not be contiguous. Rows lacking a
// manufacturer or a part number are dropped; see IncompleteItemRows.
func ParseItemsForm(form url.Values) []LineItem {
	indices := collectItemIndices(form)

	items := make([]LineItem, 0, len(indices))
	for _, idx := range indices {
		item := LineItem{
			Proposal:       itemValue(form, FieldProposal, idx),
			Project:        itemValue(form, FieldProject, idx),
			Manufacturer:   itemValue(form, FieldManufacturer, idx),
			ManufacturerPN: itemValue(form, FieldManufacturerPN, idx),
			Quantity:       1,
		}
		if item.Manufacturer == "" || item.ManufacturerPN == "" {
			continue
		}
		if item.Proposal == "" {
			item.Proposal = DefaultProposal
		}
		if item.Project == "" {
			item.Project = DefaultProject
		}
		if q, err := strconv.Atoi(itemValue(form, FieldQuantity, idx)); err == nil {
			item.Quantity = q
		}
		items = append(items, item)
	}
	return items
}

// IncompleteItemRows returns the 1-based positions, in page order, of rows
// that have only one of manufacturer and part number filled in.
func IncompleteItemRows(form url.Values) []int {
	var rows []int
	for pos, idx := range collectItemIndices(form) {
		hasMan := itemValue(form, FieldManufacturer, idx) != ""
		hasPN := itemValue(form, FieldManufacturerPN, idx) != ""
		if hasMan != hasPN {
			rows = append(rows, pos+1)
		}
	}
	return rows
}

// NextItemIndex returns one past the highest row index present in the form,
// or 0 when the form holds no rows.
func NextItemIndex(form url.Values) int {
	indices := collectItemIndices(form)
	if len(indices) == 0 {
		return 0
	}
	return indices[len(indices)-1] + 1
}

func collectItemIndices(form url.Values) []int {
	prefixes := []string{
		"items_" + FieldManufacturerPN + "_",
		"items_" + legacyManufacturer + "_pn_",
	}

	seen := make(map[int]bool)
	for key := range form {
		for _, prefix := range prefixes {
			rest, ok := strings.CutPrefix(key, prefix)
			if !ok {
				continue
			}
			if idx, err := strconv.Atoi(rest); err == nil && idx >= 0 {
				seen[idx] = true
			}
		}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

func itemValue(form url.Values, field string, idx int) string {
	if v := strings.TrimSpace(form.Get(ItemFieldName(field, idx))); v != "" {
		return v
	}
	switch field {
	case FieldManufacturer:
		return strings.TrimSpace(form.Get(ItemFieldName(legacyManufacturer, idx)))
	case FieldManufacturerPN:
		return strings.TrimSpace(form.Get(ItemFieldName(legacyManufacturer+"_pn", idx)))
	}
	return ""
}
