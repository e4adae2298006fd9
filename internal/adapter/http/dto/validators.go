package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"chappi-wallet/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("stellar_public", validateStellarPublic)
		_ = v.RegisterValidation("stellar_secret", validateStellarSecret)
	}
}

// validateStellarPublic accepts G... strkey account ids.
func validateStellarPublic(fl validator.FieldLevel) bool {
	return domain.IsValidPublicKey(fl.Field().String())
}

// validateStellarSecret accepts S... strkey seeds.
func validateStellarSecret(fl validator.FieldLevel) bool {
	return domain.IsValidSecretKey(fl.Field().String())
}

// SanitizedJSON decodes a JSON body, trims it with SanitizeStruct and only
// then runs the binding validators, so padded keys validate once trimmed.
// An empty body yields io.EOF like binding.JSON.
var SanitizedJSON binding.Binding = sanitizedJSON{}

type sanitizedJSON struct{}

func (sanitizedJSON) Name() string { return "json" }

func (sanitizedJSON) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errors.New("invalid request")
	}
	if err := json.NewDecoder(req.Body).Decode(obj); err != nil {
		return err
	}
	SanitizeStruct(obj)
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}

// SanitizeStruct trims whitespace from every exported string field
// (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if elem := f.Elem(); elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
