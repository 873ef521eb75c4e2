package valueobjects

import "fmt"

type Category string

const (
	CategoryRoad        Category = "road"
	CategoryWater       Category = "water"
	CategoryGarbage     Category = "garbage"
	CategoryElectricity Category = "electricity"
)

// Categories lists every complaint category in display order.
var Categories = []Category{
	CategoryRoad,
	CategoryWater,
	CategoryGarbage,
	CategoryElectricity,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
