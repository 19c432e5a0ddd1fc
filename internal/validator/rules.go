package validator

import (
	"bytes"
	"encoding/json"
	"log"

	"skyjobs/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правила приложение не должно запускаться
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-registrable-account-type': client | pilot
	mustRegister("is-registrable-account-type", validateRegistrableAccountType)

	// 'is-json-object': json.RawMessage, содержащий объект
	mustRegister("is-json-object", validateJSONObject)
}

func validateRegistrableAccountType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения обрабатывает 'required'
	}
	return models.AccountType(value).IsSelfRegistrable()
}

func validateJSONObject(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(json.RawMessage)
	if !ok {
		return false
	}
	return IsJSONObject(raw)
}

// IsJSONObject сообщает, является ли raw корректным JSON-объектом
func IsJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(trimmed, &obj) == nil
}
