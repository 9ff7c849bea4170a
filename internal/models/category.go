package models

// Category identifies the kind of context artifact a source produces.
type Category string

const (
	CategoryInstructions Category = "instructions"
	CategoryChatmodes    Category = "chatmodes"
	CategoryPrompts      Category = "prompts"
)

// Categories returns all artifact categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryInstructions, CategoryChatmodes, CategoryPrompts}
}

// ValidCategory reports whether s names a known artifact category.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryInstructions, CategoryChatmodes, CategoryPrompts:
		return true
	}
	return false
}
