package store

import "framecast/internal/config"

// DefaultSeeds builds the starter type catalog from the configured
// family candidates: one type per preferred family and one generic type
// per kind, so a fresh project always has something instantiable.
func DefaultSeeds(families config.Families) []TypeSeed {
	var seeds []TypeSeed

	add := func(kind string, familyLists ...[]string) {
		for _, list := range familyLists {
			if len(list) == 0 {
				continue
			}
			family := list[0]
			seeds = append(seeds, TypeSeed{Kind: kind, Family: family, Name: family})
		}
		if len(families.Generic) > 0 {
			generic := families.Generic[0]
			seeds = append(seeds, TypeSeed{Kind: kind, Family: generic, Name: generic + " " + kind})
		}
	}

	add("beam", families.BeamRectangular, families.BeamCircular)
	add("column", families.ColumnRectangular, families.ColumnCircular)
	add("slab", families.Slab)
	add("footing", families.Footing)
	return seeds
}
