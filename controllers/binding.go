package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"band-backend/apperrors"
	"band-backend/utils"
)

const imageField = "image"

// bindingMessage turns a gin binding error into the message shown to the
// client.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request payload"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Missing required fields"
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "email" {
			return "Invalid email address"
		}
	}
	return "Invalid request payload"
}

// formError reports a body cut off by middleware.LimitBody as a client
// error; any other parse failure is malformed form data.
func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Validation("Request body too large")
	}
	return apperrors.Validation("Invalid form data")
}

// formImage returns the single uploaded image, or nil when the request
// carries none.
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, formError(err)
	}
	files := form.File[imageField]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		return files[0], nil
	default:
		return nil, apperrors.Validation("Only one image can be uploaded")
	}
}

// pathID parses :id; anything that is not a positive integer cannot name a
// record, so it is reported as notFound.
func pathID(c *gin.Context, notFound string) (uint, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return 0, apperrors.NotFound(notFound)
	}
	return id, nil
}
