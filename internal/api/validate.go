package api

import (
	"fmt"

	"github.com/DD2507/Tripster/internal/model"
)

// planRequestIn is the inbound planning body. numberOfDays is an accepted
// alias for days kept for older clients.
type planRequestIn struct {
	Destination  string  `json:"destination"`
	Days         int     `json:"days"`
	NumberOfDays int     `json:"numberOfDays"`
	Budget       float64 `json:"budget"`
	People       int     `json:"people"`
	VegOnly      bool    `json:"vegOnly"`
	MealsPerDay  int     `json:"mealsPerDay"`
}

func (in planRequestIn) normalize() model.PlanRequest {
	days := in.Days
	if days == 0 {
		days = in.NumberOfDays
	}
	people := in.People
	if people == 0 {
		people = 1
	}
	meals := in.MealsPerDay
	if meals == 0 {
		meals = 2
	}
	return model.PlanRequest{
		Destination: in.Destination,
		Days:        days,
		Budget:      in.Budget,
		People:      people,
		VegOnly:     in.VegOnly,
		MealsPerDay: meals,
	}
}

func validatePlanRequest(req model.PlanRequest) error {
	if req.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if req.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if req.Budget <= 0 {
		return fmt.Errorf("budget must be positive")
	}
	if req.People < 1 {
		return fmt.Errorf("people must be at least 1")
	}
	if req.MealsPerDay < 1 || req.MealsPerDay > 4 {
		return fmt.Errorf("mealsPerDay must be between 1 and 4")
	}
	return nil
}
