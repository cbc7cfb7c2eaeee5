// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

var (
	// ErrInvalidSettings возвращается, если настройки клуба не проходят проверку.
	ErrInvalidSettings = errors.New("invalid club settings")
	// ErrInvalidCourt возвращается для некорректного корта.
	ErrInvalidCourt = errors.New("invalid court")
	// ErrInvalidMerchItem возвращается для некорректного товара.
	ErrInvalidMerchItem = errors.New("invalid merch item")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSettings проверяет настройки клуба по тегам validate модели.
// Ошибка перечисляет все нарушенные правила и оборачивает ErrInvalidSettings.
func ValidateSettings(s model.Settings) error {
	return validateStruct(s, ErrInvalidSettings)
}

// ValidateCourt проверяет корт перед сохранением.
func ValidateCourt(c model.Court) error {
	return validateStruct(c, ErrInvalidCourt)
}

// ValidateMerchItem проверяет товар перед сохранением.
func ValidateMerchItem(m model.MerchItem) error {
	return validateStruct(m, ErrInvalidMerchItem)
}

func validateStruct(v any, sentinel error) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields = append(fields, fmt.Sprintf("%s: %s (got %v)", fe.Field(), rule, fe.Value()))
	}

	return fmt.Errorf("%w: %s", sentinel, strings.Join(fields, "; "))
}
