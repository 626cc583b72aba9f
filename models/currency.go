package models

import "github.com/Rhymond/go-money"

// ValidateCurrency проверяет, что метка валюты — известный код ISO 4217.
// Метка используется только для отображения, конвертации движок не выполняет.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return NewValidation("неизвестный код валюты: %q", code)
	}
	return nil
}
