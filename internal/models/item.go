package models

// ItemType is the category of an item.
type ItemType string

const (
	ItemTypeBook    ItemType = "book"
	ItemTypeFood    ItemType = "food"
	ItemTypeMedical ItemType = "medical"
	ItemTypeOther   ItemType = "other"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeBook, ItemTypeFood, ItemTypeMedical, ItemTypeOther:
		return true
	}
	return false
}

// Item is a stateless resource: the API echoes it back without persisting.
type Item struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Type        ItemType `json:"type" validate:"required"`
}
