package showcase

import "fmt"

const (
	lowStockThreshold = 10

	MsgMaxStock = "Maximum available stock reached"
)

// StockLabel is the availability line on the product detail page
func StockLabel(stock int) string {
	switch {
	case stock > lowStockThreshold:
		return "In Stock"
	case stock > 0:
		return fmt.Sprintf("Only %d left", stock)
	default:
		return "Out of Stock"
	}
}

// InStock reports whether the add-to-cart button is enabled
func InStock(stock int) bool {
	return stock > 0
}

// StepResult is the outcome of pressing a quantity stepper button
type StepResult struct {
	Quantity int `json:"quantity"`
	// Blocked is set when the step was refused at the stock limit
	Blocked bool `json:"blocked"`
	// CanDecrease and CanIncrease drive the enabled state of the buttons
	CanDecrease bool `json:"canDecrease"`
	CanIncrease bool `json:"canIncrease"`
}

// StepQuantity applies one stepper press to the detail-page quantity.
// Quantity stays within [1, stock]; an increase past stock is blocked.
func StepQuantity(current, delta, stock int) StepResult {
	if current < 1 {
		current = 1
	}

	next := current + delta
	blocked := false
	switch {
	case next < 1:
		next = 1
	case delta > 0 && next > stock:
		next = current
		blocked = true
	}

	return StepResult{
		Quantity:    next,
		Blocked:     blocked,
		CanDecrease: next > 1,
		CanIncrease: next < stock,
	}
}
