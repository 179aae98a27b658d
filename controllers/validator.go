package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validation constants
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	// Report fields by their json names so validation details match the
	// request body shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// BindJSON decodes the request body into dst and validates it, returning a
// classified ValidationError with field-level messages on failure.
func (rv *RequestValidator) BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.NewValidation([]apperrors.FieldError{
			{Field: "body", Message: "Invalid JSON body"},
		})
	}
	return rv.Struct(dst)
}

// Struct validates an already-decoded request struct.
func (rv *RequestValidator) Struct(dst interface{}) error {
	err := rv.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternal(err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return apperrors.NewValidation(fields)
}

// fieldMessage renders one human-readable message per failed rule.
func fieldMessage(fe validator.FieldError) string {
	label := labelize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is required", label)
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", label)
	case "gte":
		return fmt.Sprintf("%s cannot be negative", label)
	case "lte":
		return fmt.Sprintf("%s is too high", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// labelize turns a json field name like "categoryId" into "Category ID".
func labelize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	label := b.String()
	label = strings.ReplaceAll(label, "Id", "ID")
	return label
}

// ParseObjectID validates a 24-hex identifier from path or body.
func (rv *RequestValidator) ParseObjectID(field, value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidation([]apperrors.FieldError{
			{Field: field, Message: "Invalid ObjectId format"},
		})
	}
	return id, nil
}

// ParseListQuery validates search/filter/pagination query parameters and
// applies the documented defaults (page=1, limit=10).
func (rv *RequestValidator) ParseListQuery(c *gin.Context) (services.ListProductsParams, error) {
	params := services.ListProductsParams{
		Search: strings.TrimSpace(c.Query("search")),
	}

	page, err := parsePositiveInt(c.DefaultQuery("page", "1"))
	if err != nil {
		return params, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "page", Message: "Page must be a positive integer"},
		})
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}
	params.Page = page

	limit, err := parsePositiveInt(c.DefaultQuery("limit", "10"))
	if err != nil {
		return params, apperrors.NewValidation([]apperrors.FieldError{
			{Field: "limit", Message: "Limit must be a positive integer"},
		})
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	params.Limit = limit

	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		categoryID, err := rv.ParseObjectID("categoryId", raw)
		if err != nil {
			return params, err
		}
		params.CategoryID = &categoryID
	}

	return params, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
