package domain

import "errors"

var ErrInvalidPlan = errors.New("invalid plan type")

// Plan is a fixed purchasable bundle. Amount is in major currency units; the
// gateway is billed in minor units (amount * 100).
type Plan struct {
	Type       string
	Amount     int64
	Credits    int
	SceneLimit int
}

const PlanCurrency = "INR"

var plans = map[string]Plan{
	"BASIC": {Type: "BASIC", Amount: 499, Credits: 100, SceneLimit: 30},
}

const DefaultPlanType = "BASIC"

func PlanByType(planType string) (Plan, error) {
	plan, ok := plans[planType]
	if !ok {
		return Plan{}, ErrInvalidPlan
	}
	return plan, nil
}

func (p Plan) AmountMinor() int64 {
	return p.Amount * 100
}
