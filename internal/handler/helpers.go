package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"gymdesk/internal/apierror"
	"gymdesk/internal/auth"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Field errors are reported under their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[campoJSON(fe)] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// campoJSON drops the request type and embedded struct names from the
// namespace, keeping nested paths such as horarios[0].fin.
func campoJSON(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	for i, p := range parts {
		if p != "" && unicode.IsLower(rune(p[0])) {
			return strings.Join(parts[i:], ".")
		}
	}
	return fe.Field()
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

func caller(c *gin.Context) (auth.Identidad, bool) {
	id, ok := middleware.Identidad(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
	}
	return id, ok
}

func filtro(c *gin.Context) dto.FiltroEstado {
	return dto.ParseFiltroEstado(c.Query("estado"))
}

// estadoDe maps a rule outcome to its HTTP status.
var estadoDe = []struct {
	err    error
	status int
}{
	{gymerr.ErrNotFound, http.StatusNotFound},
	{gymerr.ErrConflict, http.StatusConflict},
	{gymerr.ErrInactive, http.StatusUnprocessableEntity},
	{gymerr.ErrCapacityExceeded, http.StatusConflict},
	{gymerr.ErrAlreadyEnrolled, http.StatusConflict},
	{gymerr.ErrNotEnrolled, http.StatusUnprocessableEntity},
	{gymerr.ErrDuplicateAttendance, http.StatusConflict},
	{gymerr.ErrDuplicateDNI, http.StatusConflict},
	{gymerr.ErrAlreadyMember, http.StatusConflict},
	{gymerr.ErrForbidden, http.StatusForbidden},
	{gymerr.ErrInvalidCredentials, http.StatusUnauthorized},
}

// respondError writes the response for a service error. Anything outside
// the rule taxonomy goes to the ErrorHandler middleware as a 500.
func respondError(c *gin.Context, err error) {
	var ve *gymerr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(ve.Fields))
		return
	}
	var rr *gymerr.ReactivationRequired
	if errors.As(err, &rr) {
		c.JSON(http.StatusConflict, dto.ReactivarResponse{Detail: rr.Error(), ReactivarID: rr.ID.String()})
		return
	}
	if errors.Is(err, gymerr.ErrPurchaseFailed) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(gymerr.ErrPurchaseFailed.Error()))
		return
	}
	for _, e := range estadoDe {
		if errors.Is(err, e.err) {
			c.JSON(e.status, apierror.New(err.Error()))
			return
		}
	}
	_ = c.Error(err)
}
