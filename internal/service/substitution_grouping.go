package service

import (
	"sort"

	"github.com/noah-isme/kiosk-api/internal/models"
)

// GroupByClass reshapes the bulletin into per-class buckets sorted by class name.
// Records inside a bucket keep the order in which they were encountered.
func GroupByClass(substitutions *models.SubstitutionSnapshot) []models.ClassSubstitutions {
	if substitutions == nil {
		return []models.ClassSubstitutions{}
	}

	index := make(map[string]int)
	groups := make([]models.ClassSubstitutions, 0)
	for _, section := range substitutions.Sections {
		for _, record := range section.Lessons {
			pos, ok := index[record.ClassName]
			if !ok {
				pos = len(groups)
				index[record.ClassName] = pos
				groups = append(groups, models.ClassSubstitutions{ClassName: record.ClassName})
			}
			groups[pos].Substitutions = append(groups[pos].Substitutions, record)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].ClassName < groups[j].ClassName
	})
	return groups
}
