package request_models

import "tripcrew/internal/planner"

// GroupRequest is the body of POST /itinerary/generate.
type GroupRequest struct {
	Destination string           `json:"destination" binding:"required"`
	People      []planner.Person `json:"people" binding:"required,min=1,dive"`
	StartDate   string           `json:"start_date" binding:"required"`
	EndDate     string           `json:"end_date" binding:"required"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	Budget      string           `json:"budget"`
}
