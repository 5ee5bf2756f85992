package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"band-backend/services"
	"band-backend/utils"
)

type memberForm struct {
	Name       string `form:"name"`
	Instrument string `form:"instrument"`
	Bio        string `form:"bio"`
	IsCaptain  string `form:"isCaptain"`
	Order      string `form:"order"`
	Active     string `form:"active"`
}

func (f memberForm) input() (services.MemberInput, error) {
	in := services.MemberInput{Name: f.Name, Instrument: f.Instrument, Bio: f.Bio}

	var err error
	if in.IsCaptain, err = utils.ParseFormBool("isCaptain", f.IsCaptain); err != nil {
		return in, err
	}
	if in.Active, err = utils.ParseFormBool("active", f.Active); err != nil {
		return in, err
	}
	order, ok, err := utils.ParseOptionalInt("order", f.Order)
	if err != nil {
		return in, err
	}
	if ok {
		in.Order = &order
	}
	return in, nil
}

type MemberController struct {
	MemberSvc *services.MemberService
}

func NewMemberController(svc *services.MemberService) *MemberController {
	return &MemberController{MemberSvc: svc}
}

// bindMember reads the multipart form and its optional image.
func bindMember(c *gin.Context) (services.MemberInput, *multipart.FileHeader, error) {
	var form memberForm
	if err := c.ShouldBind(&form); err != nil {
		return services.MemberInput{}, nil, formError(err)
	}
	in, err := form.input()
	if err != nil {
		return in, nil, err
	}
	image, err := formImage(c)
	return in, image, err
}

// ListPublic handles GET /api/members.
func (ctl *MemberController) ListPublic(c *gin.Context) {
	members, err := ctl.MemberSvc.ListPublic(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// ListAll handles GET /api/admin/members.
func (ctl *MemberController) ListAll(c *gin.Context) {
	members, err := ctl.MemberSvc.ListAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (ctl *MemberController) Get(c *gin.Context) {
	id, err := pathID(c, "Member not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	member, err := ctl.MemberSvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (ctl *MemberController) Create(c *gin.Context) {
	in, image, err := bindMember(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	member, err := ctl.MemberSvc.Create(c.Request.Context(), in, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (ctl *MemberController) Update(c *gin.Context) {
	id, err := pathID(c, "Member not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	in, image, err := bindMember(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	member, err := ctl.MemberSvc.Update(c.Request.Context(), id, in, image)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (ctl *MemberController) Delete(c *gin.Context) {
	id, err := pathID(c, "Member not found")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := ctl.MemberSvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Member deleted")
}
