package model

// ResourceSpec sizes a provisioned panel server. Zero means unlimited.
type ResourceSpec struct {
	RAM  int // MB
	Disk int // MB
	CPU  int // percent
}

// PricingTable maps panel sizing keys to unit prices plus the flat prices
// for the remaining goods. Defaults are overlaid by persisted overrides.
type PricingTable struct {
	Panel    map[string]int64
	Adp      int64 // admin panel account
	Reseller int64
	Userbot  int64
	Rental   int64
}

// PanelPlanOrder fixes the display order of sizing keys in menus.
var PanelPlanOrder = []string{
	"1gb", "2gb", "3gb", "4gb", "5gb", "6gb", "7gb", "8gb", "9gb", "10gb", "unli",
}

// PanelPlans maps sizing keys to their resource allocations.
var PanelPlans = map[string]ResourceSpec{
	"1gb":  {RAM: 1000, Disk: 1000, CPU: 40},
	"2gb":  {RAM: 2000, Disk: 1000, CPU: 60},
	"3gb":  {RAM: 3000, Disk: 2000, CPU: 80},
	"4gb":  {RAM: 4000, Disk: 2000, CPU: 100},
	"5gb":  {RAM: 5000, Disk: 3000, CPU: 120},
	"6gb":  {RAM: 6000, Disk: 3000, CPU: 140},
	"7gb":  {RAM: 7000, Disk: 4000, CPU: 160},
	"8gb":  {RAM: 8000, Disk: 4000, CPU: 180},
	"9gb":  {RAM: 9000, Disk: 5000, CPU: 200},
	"10gb": {RAM: 10000, Disk: 5000, CPU: 220},
	"unli": {},
}

// DefaultPricing returns the built-in price table. Callers receive a fresh
// copy; overrides never mutate the defaults.
func DefaultPricing() *PricingTable {
	panel := map[string]int64{
		"1gb": 1000, "2gb": 2000, "3gb": 3000, "4gb": 4000, "5gb": 5000,
		"6gb": 6000, "7gb": 7000, "8gb": 8000, "9gb": 9000, "10gb": 10000,
		"unli": 11000,
	}
	return &PricingTable{
		Panel:    panel,
		Adp:      20000,
		Reseller: 15000,
		Userbot:  15000,
		Rental:   9000,
	}
}
