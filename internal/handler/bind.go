package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
)

var tagNameOnce sync.Once

// useJSONFieldNames makes gin's validator report json names, so field errors
// from binding look the same as the ones the services produce.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body into dst and writes a 400 on failure.
// It returns false when the handler must stop.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fe := make([]service.FieldError, 0, len(ve))
		for _, e := range ve {
			fe = append(fe, service.FieldError{Field: e.Field(), Message: tagMessage(e)})
		}
		writeInvalid(c, fe...)
		return
	}
	writeInvalid(c, service.FieldError{Field: "body", Message: "must be valid JSON"})
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min", "gte":
		return "must be >= " + e.Param()
	case "max", "lte":
		return "must be <= " + e.Param()
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

func writeInvalid(c *gin.Context, fe ...service.FieldError) {
	writeErr(c, service.NewInvalidInputError(fe))
}

// pageFrom reads limit/offset. Bad numbers are rejected rather than silently zeroed.
func pageFrom(c *gin.Context) (repository.Page, bool) {
	var (
		p  repository.Page
		fe []service.FieldError
	)
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fe = append(fe, service.FieldError{Field: "limit", Message: "must be an integer"})
		}
		p.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fe = append(fe, service.FieldError{Field: "offset", Message: "must be an integer"})
		}
		p.Offset = n
	}
	if len(fe) > 0 {
		writeInvalid(c, fe...)
		return p, false
	}
	return p, true
}
