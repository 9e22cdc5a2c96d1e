package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"gimnasio/internal/apierror"
	"gimnasio/internal/middleware"
	"gimnasio/internal/repository"
	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxUploadBytes caps multipart uploads (photos and payment receipts).
const maxUploadBytes = 20 << 20

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

	// report json field names instead of Go ones
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// Returns false after writing a 400 when binding or validation fails; the
// caller must return without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, "JSON invalido"))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, "Parametros invalidos"))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
	return false
}

// parseID reads a uuid path parameter, writing a 400 when it is malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, "ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// formFile reads a multipart file field, enforcing maxUploadBytes.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, "Archivo requerido en el campo "+field))
		return nil, false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeBadRequest, "El archivo supera los 20 MB"))
		return nil, false
	}
	return fh, true
}

// solicitante builds the caller identity services use for ownership checks.
func solicitante(c *gin.Context) service.Solicitante {
	s := service.Solicitante{ID: middleware.UserID(c)}
	if claims := middleware.GetClaims(c); claims != nil {
		s.Roles = claims.AllRoles()
	}
	return s
}

// respondError maps service and repository errors onto the API envelope.
// Unknown errors are logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, apierror.CodeInternal
	switch {
	case errors.Is(err, service.ErrNoEncontrado), errors.Is(err, gorm.ErrRecordNotFound):
		status, code = http.StatusNotFound, apierror.CodeNotFound
	case errors.Is(err, service.ErrConflicto), errors.Is(err, repository.ErrDuplicado):
		status, code = http.StatusConflict, apierror.CodeConflict
	case errors.Is(err, service.ErrProhibido):
		status, code = http.StatusForbidden, apierror.CodeForbidden
	case errors.Is(err, service.ErrNoAutorizado):
		status, code = http.StatusUnauthorized, apierror.CodeUnauthorized
	case errors.Is(err, service.ErrDatoInvalido), errors.Is(err, repository.ErrReferenciaInvalida):
		status, code = http.StatusBadRequest, apierror.CodeBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(status, apierror.Internal())
		return
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(status, apierror.New(code, svcErr.Msg))
		return
	}
	c.JSON(status, apierror.New(code, defaultDetail(status)))
}

func defaultDetail(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Recurso no encontrado"
	case http.StatusConflict:
		return "El registro ya existe"
	case http.StatusBadRequest:
		return "Referencia invalida"
	}
	return http.StatusText(status)
}
