// Package report assembles the data quality report from the counters of
// each table transform.
package report

import (
	"github.com/de-tools/fleximart/pkg/models/domain"
)

type counterLayout struct {
	name  string
	value func(domain.QualityCounters) int
}

type sectionLayout struct {
	title    string
	table    string
	counters []counterLayout
}

var (
	processed  = counterLayout{"Processed", func(c domain.QualityCounters) int { return c.Processed }}
	duplicates = counterLayout{"Duplicates Removed", func(c domain.QualityCounters) int { return c.DuplicatesRemoved }}
	loaded     = counterLayout{"Loaded", func(c domain.QualityCounters) int { return c.Loaded }}
)

func removed(name, column string) counterLayout {
	return counterLayout{name, func(c domain.QualityCounters) int { return c.Removed(column) }}
}

func filled(name, column string) counterLayout {
	return counterLayout{name, func(c domain.QualityCounters) int { return c.Filled(column) }}
}

// layouts fix the section order and the counter order inside each line.
var layouts = []sectionLayout{
	{
		title: "Customers",
		table: "customers",
		counters: []counterLayout{
			processed,
			duplicates,
			removed("Missing Emails Removed", "email"),
			loaded,
		},
	},
	{
		title: "Products",
		table: "products",
		counters: []counterLayout{
			processed,
			filled("Missing Prices Filled", "price"),
			filled("Missing Stock Filled", "stock_quantity"),
			loaded,
		},
	},
	{
		title: "Sales",
		table: "sales",
		counters: []counterLayout{
			processed,
			duplicates,
			removed("Missing Customer IDs Removed", "customer_id"),
			removed("Missing Product IDs Removed", "product_id"),
			loaded,
		},
	},
}

// Assemble builds the report sections in the fixed Customers, Products,
// Sales order. Tables without counters are left out.
func Assemble(runID string, counters ...domain.QualityCounters) domain.QualityReport {
	byTable := make(map[string]domain.QualityCounters, len(counters))
	for _, c := range counters {
		byTable[c.Table] = c
	}

	rep := domain.QualityReport{RunID: runID}
	for _, layout := range layouts {
		c, ok := byTable[layout.table]
		if !ok {
			continue
		}
		section := domain.ReportSection{Title: layout.title}
		for _, counter := range layout.counters {
			section.Counters = append(section.Counters, domain.ReportCounter{
				Name:  counter.name,
				Value: counter.value(c),
			})
		}
		rep.Sections = append(rep.Sections, section)
	}
	return rep
}
