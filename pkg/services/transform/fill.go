package transform

import (
	"sort"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Median returns the median of the present numeric values of column.
// Missing, invalid and non-numeric values take no part in it. A column with
// no usable value yields Missing, which leaves the gaps unfilled.
func Median(column []domain.Value) domain.Value {
	nums := make([]decimal.Decimal, 0, len(column))
	for _, v := range column {
		if !v.IsPresent() {
			continue
		}
		d, err := decimal.NewFromString(v.Text())
		if err != nil {
			continue
		}
		nums = append(nums, d)
	}
	if len(nums) == 0 {
		return domain.Missing()
	}

	sort.Slice(nums, func(i, j int) bool { return nums[i].LessThan(nums[j]) })
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return domain.Present(nums[mid].String())
	}
	return domain.Present(nums[mid-1].Add(nums[mid]).Div(two).String())
}

// Constant fills every gap with v.
func Constant(v domain.Value) FillStrategy {
	return func([]domain.Value) domain.Value {
		return v
	}
}
