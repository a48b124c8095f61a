package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/llm"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgNoAPIKey      = "No API key provided. Set GROQ_API_KEY in .env or send api_key in request."
	msgInvalidAPIKey = "Invalid API key"
	msgRateLimited   = "Rate limit exceeded. Please wait and try again."
	msgInternal      = "Internal server error"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the JSON name of a field.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// abortWithBindError answers a request that failed decoding or validation.
func abortWithBindError(c *gin.Context, err error) {
	abortWithDetail(c, http.StatusUnprocessableEntity, validationDetail(err))
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe)))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s: Input should be a valid %s", typeErr.Field, typeErr.Type.Kind())
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "JSON decode error"
	}

	if errors.Is(err, io.EOF) {
		return "Field required"
	}

	return "Validation failed"
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("String should have at least %s %s", fe.Param(), characters(fe.Param()))
	case "max":
		return fmt.Sprintf("String should have at most %s %s", fe.Param(), characters(fe.Param()))
	default:
		return "Invalid value"
	}
}

func characters(n string) string {
	if n == "1" {
		return "character"
	}
	return "characters"
}

// abortWithServiceError maps credential and provider failures onto HTTP.
// A provider 400 is passed through only where passBadRequest is set.
func abortWithServiceError(c *gin.Context, err error, passBadRequest bool) {
	if errors.Is(err, appconfig.ErrNoAPIKey) {
		abortWithDetail(c, http.StatusUnauthorized, msgNoAPIKey)
		return
	}

	var upstream *llm.UpstreamError
	if !errors.As(err, &upstream) {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortWithDetail(c, http.StatusInternalServerError, msgInternal)
		return
	}

	logger.Error("Upstream LLM error",
		zap.String("path", c.FullPath()),
		zap.Int("status", upstream.StatusCode),
		zap.String("message", upstream.Message))

	switch {
	case upstream.StatusCode == http.StatusUnauthorized:
		abortWithDetail(c, http.StatusUnauthorized, msgInvalidAPIKey)
	case upstream.StatusCode == http.StatusTooManyRequests:
		abortWithDetail(c, http.StatusTooManyRequests, msgRateLimited)
	case upstream.StatusCode == http.StatusBadRequest && passBadRequest:
		abortWithDetail(c, http.StatusBadRequest, upstream.Message)
	default:
		abortWithDetail(c, http.StatusInternalServerError, upstream.Message)
	}
}
