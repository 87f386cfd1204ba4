package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// ResolveCategory matches input against category names. Exact and unique
// prefix matches win; otherwise the closest names within edit distance are
// returned as suggestions.
func ResolveCategory(input string) (domain.Category, []string, bool) {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	match, suggestions, ok := resolve(input, names)
	return domain.Category(match), suggestions, ok
}

// ResolveOption matches input against the option IDs of category. An empty
// category searches every option.
func (c *Catalog) ResolveOption(category domain.Category, input string) (domain.ConstructionOption, []string, bool) {
	var ids []string
	for _, o := range c.options {
		if category == "" || o.Category == category {
			ids = append(ids, o.ID)
		}
	}
	match, suggestions, ok := resolve(input, ids)
	if !ok {
		return domain.ConstructionOption{}, suggestions, false
	}
	return c.optionByID[match], nil, true
}

func resolve(input string, candidates []string) (string, []string, bool) {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" {
		return "", nil, false
	}

	var prefixed []string
	for _, cand := range candidates {
		if cand == token {
			return cand, nil, true
		}
		if strings.HasPrefix(cand, token) {
			prefixed = append(prefixed, cand)
		}
	}
	if len(prefixed) == 1 && len(token) >= 2 {
		return prefixed[0], nil, true
	}
	if len(prefixed) > 1 {
		sort.Strings(prefixed)
		return "", prefixed, false
	}

	type scored struct {
		val  string
		dist int
	}
	var near []scored
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(token, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		near = append(near, scored{val: cand, dist: dist})
	}
	sort.SliceStable(near, func(i, j int) bool {
		if near[i].dist == near[j].dist {
			return near[i].val < near[j].val
		}
		return near[i].dist < near[j].dist
	})
	out := make([]string, 0, len(near))
	for _, n := range near {
		out = append(out, n.val)
	}
	return "", out, false
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
