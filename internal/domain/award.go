package domain

const (
	MinIconColor = 0
	MaxIconColor = 3
)

// Icon references a texture in the client's texture dictionaries
type Icon struct {
	Library string
	Name    string
	Color   int
}

type AwardDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        Icon

	// Progress needed before the award unlocks
	RequiredProgress int
}

// NewAwardDefinition creates a definition with the icon color clamped to [MinIconColor, MaxIconColor]
func NewAwardDefinition(id, name, description, iconLibrary, iconName string, iconColor, requiredProgress int) AwardDefinition {
	return AwardDefinition{
		ID:          id,
		Name:        name,
		Description: description,
		Icon: Icon{
			Library: iconLibrary,
			Name:    iconName,
			Color:   ClampIconColor(iconColor),
		},
		RequiredProgress: requiredProgress,
	}
}

func ClampIconColor(color int) int {
	return min(max(color, MinIconColor), MaxIconColor)
}
