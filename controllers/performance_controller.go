package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"band-backend/services"
	"band-backend/utils"
)

type performanceForm struct {
	Title       string `form:"title"`
	Date        string `form:"date"`
	Venue       string `form:"venue"`
	City        string `form:"city"`
	Description string `form:"description"`
	TicketLink  string `form:"ticketLink"`
	Active      string `form:"active"`
}

func (f performanceForm) input() (services.PerformanceInput, error) {
	active, err := utils.ParseFormBool("active", f.Active)
	return services.PerformanceInput{
		Title:       f.Title,
		Date:        f.Date,
		Venue:       f.Venue,
		City:        f.City,
		Description: f.Description,
		TicketLink:  f.TicketLink,
		Active:      active,
	}, err
}

type PerformanceController struct {
	PerformanceSvc *services.PerformanceService
}

func NewPerformanceController(svc *services.PerformanceService) *PerformanceController {
	return &PerformanceController{PerformanceSvc: svc}
}

func bindPerformance(c *gin.Context) (services.PerformanceInput, *multipart.FileHeader, error) {
	var form performanceForm
	if err := c.ShouldBind(&form); err != nil {
		return services.PerformanceInput{}, nil, formError(err)
	}
	in, err := form.input()
	if err != nil {
		return in, nil, err
	}
	image, err := formImage(c)
	return in, image, err
}

// ListPublic handles GET /api/performances.
func (ctl *PerformanceController) ListPublic(c *gin.Context) {
	listing, err := ctl.PerformanceSvc.ListPublic(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (ctl *PerformanceController) ListAll(c *gin.Context) {
	performances, err := ctl.PerformanceSvc.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, performances)
}

func (ctl *PerformanceController) Get(c *gin.Context) {
	id, err := pathID(c, "Performance not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	performance, err := ctl.PerformanceSvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, performance)
}

func (ctl *PerformanceController) Create(c *gin.Context) {
	in, image, err := bindPerformance(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	performance, err := ctl.PerformanceSvc.Create(c.Request.Context(), in, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, performance)
}

func (ctl *PerformanceController) Update(c *gin.Context) {
	id, err := pathID(c, "Performance not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	in, image, err := bindPerformance(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	performance, err := ctl.PerformanceSvc.Update(c.Request.Context(), id, in, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, performance)
}

func (ctl *PerformanceController) Delete(c *gin.Context) {
	id, err := pathID(c, "Performance not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := ctl.PerformanceSvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Performance deleted")
}
