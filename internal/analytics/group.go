package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// group accumulates the count, sum and distinct customers of one key.
type group struct {
	key       string
	count     int
	sum       decimal.Decimal
	customers map[string]struct{}
}

func (g *group) add(r *record) {
	g.count++
	g.sum = g.sum.Add(r.Amount)
	g.customers[r.CustomerID] = struct{}{}
}

func (g *group) mean() decimal.Decimal {
	return mean(g.sum, g.count)
}

// groupBy buckets the records accepted by keep under key(r). Groups are
// returned in first-seen order.
func (e *Engine) groupBy(key func(r *record) string, keep func(r *record) bool) []*group {
	index := make(map[string]*group)
	var groups []*group
	for i := range e.records {
		r := &e.records[i]
		if keep != nil && !keep(r) {
			continue
		}
		k := key(r)
		g, ok := index[k]
		if !ok {
			g = &group{key: k, customers: make(map[string]struct{})}
			index[k] = g
			groups = append(groups, g)
		}
		g.add(r)
	}
	return groups
}

// monthCategory identifies one category in one year-month.
type monthCategory struct {
	month    string
	category string
}

// monthCategoryGroup is a group keyed on its month and category.
type monthCategoryGroup struct {
	monthCategory
	*group
}

// groupByMonthCategory buckets every record by (year-month, category) in
// first-seen order.
func (e *Engine) groupByMonthCategory() []monthCategoryGroup {
	index := make(map[monthCategory]*group)
	var groups []monthCategoryGroup
	for i := range e.records {
		r := &e.records[i]
		k := monthCategory{month: r.yearMonth, category: string(r.Category)}
		g, ok := index[k]
		if !ok {
			g = &group{customers: make(map[string]struct{})}
			index[k] = g
			groups = append(groups, monthCategoryGroup{k, g})
		}
		g.add(r)
	}
	return groups
}

// sortBySpend orders groups by descending sum, then by key.
func sortBySpend(groups []*group) {
	sort.Slice(groups, func(i, j int) bool {
		if c := groups[i].sum.Cmp(groups[j].sum); c != 0 {
			return c > 0
		}
		return groups[i].key < groups[j].key
	})
}
