package domain

import customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"

// Quantity derives the liters delivered by one record.
//
// Milkman customers sum the morning and evening amounts. Regular customers use
// the morning amount as an override when it is positive and fall back to the
// customer's daily amount otherwise; the evening amount is ignored for them.
func Quantity(customerType customerdomain.CustomerType, dailyAmount float64, morning, evening *float64) float64 {
	if customerType == customerdomain.CustomerTypeMilkman {
		return valueOrZero(morning) + valueOrZero(evening)
	}
	if morning != nil && *morning > 0 {
		return *morning
	}
	return dailyAmount
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
