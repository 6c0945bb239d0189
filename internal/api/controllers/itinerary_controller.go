package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcrew/internal/models/request_models"
	"tripcrew/internal/services"
	"tripcrew/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	logger           *zap.Logger
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface, logger *zap.Logger) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// POST /itinerary/generate
func (ic *ItineraryController) GenerateItineraryHandler(c *gin.Context) {
	var req request_models.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format: destination, people, start_date and end_date are required")
		return
	}

	resp, err := ic.itineraryService.GenerateItinerary(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, ic.logger, err)
		return
	}

	message := "Itinerary generated successfully"
	if len(resp.CoverageGaps) > 0 {
		message = "Itinerary generated with coverage gaps"
	}
	utils.RespondSuccess(c, resp, message)
}

// POST /itinerary/context
func (ic *ItineraryController) TripContextHandler(c *gin.Context) {
	var req request_models.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format: destination, people, start_date and end_date are required")
		return
	}

	resp, err := ic.itineraryService.DescribeTripContext(req)
	if err != nil {
		utils.HandleServiceError(c, ic.logger, err)
		return
	}
	utils.RespondSuccess(c, resp, "Trip context computed")
}

// GET /healthz
func (ic *ItineraryController) HealthHandler(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
